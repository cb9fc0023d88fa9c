package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/apperror"
	"skincare-backend/pkg/logger"
)

type routineUsecase struct {
	users    domain.UserRepository
	statuses domain.StatusRepository
	products domain.ProductRepository
	planner  domain.RoutinePlanner
	now      func() time.Time
}

// NewRoutineUsecase wires the routine operations. now supplies the default
// date for status calls; nil means time.Now.
func NewRoutineUsecase(
	users domain.UserRepository,
	statuses domain.StatusRepository,
	products domain.ProductRepository,
	planner domain.RoutinePlanner,
	now func() time.Time,
) domain.RoutineUsecase {
	if now == nil {
		now = time.Now
	}
	return &routineUsecase{
		users:    users,
		statuses: statuses,
		products: products,
		planner:  planner,
		now:      now,
	}
}

// loadRoutine returns the stored routine, or the default one for users
// without a document.
func (u *routineUsecase) loadRoutine(ctx context.Context, uid string) (domain.Routine, error) {
	rec, err := u.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultRoutine(), nil
		}
		return domain.Routine{}, fmt.Errorf("load routine: %w", err)
	}
	return domain.Normalize(rec.Routine), nil
}

func (u *routineUsecase) GetRoutine(ctx context.Context, uid string) (*domain.Routine, error) {
	r, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}
	return &r, nil
}

// SaveRoutine replaces time and products. The generated plan is kept.
func (u *routineUsecase) SaveRoutine(ctx context.Context, uid string, input domain.RoutineInput) (*domain.Routine, error) {
	if !domain.ValidProductsShape(input.Products) {
		return nil, apperror.BadRequest("products must be a list or an object with 'am' and 'pm' lists")
	}

	current, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}

	times := make([]any, len(input.Time))
	for i, t := range input.Time {
		times[i] = t
	}
	next := domain.Normalize(map[string]any{
		"time":     times,
		"products": input.Products,
	})
	next.Plan = current.Plan

	if err := u.users.SaveRoutine(ctx, uid, next); err != nil {
		return nil, toAppError(err)
	}
	return &next, nil
}

func (u *routineUsecase) AddProduct(ctx context.Context, uid, slot, productID string) (*domain.Routine, error) {
	if slot == "" {
		slot = string(domain.SlotAM)
	}
	current, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}

	next, err := domain.AddProduct(current, slot, productID)
	if err != nil {
		return nil, toAppError(err)
	}
	if err := u.users.SaveRoutine(ctx, uid, next); err != nil {
		return nil, toAppError(err)
	}
	return &next, nil
}

// RemoveProduct removes from both slots when slot is empty.
func (u *routineUsecase) RemoveProduct(ctx context.Context, uid, slot, productID string) (*domain.Routine, error) {
	var s domain.Slot
	if slot != "" {
		parsed, err := domain.ParseSlot(slot)
		if err != nil {
			return nil, toAppError(err)
		}
		s = parsed
	}
	id, err := domain.CleanProductID(productID)
	if err != nil {
		return nil, toAppError(err)
	}

	current, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}
	next := domain.RemoveProduct(current, s, id)
	if err := u.users.SaveRoutine(ctx, uid, next); err != nil {
		return nil, toAppError(err)
	}
	return &next, nil
}

// GeneratePlan asks the planner to order the user's products. Products
// embedded on the user document win over linked catalog products.
func (u *routineUsecase) GeneratePlan(ctx context.Context, uid string) (domain.Plan, error) {
	rec, err := u.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, toAppError(err)
	}

	products := rec.Products
	if len(products) == 0 {
		products, err = u.products.ListLinked(ctx, uid)
		if err != nil {
			return nil, toAppError(err)
		}
	}
	if len(products) == 0 {
		return nil, apperror.BadRequest("No products found to generate a routine from.")
	}

	generated, err := u.planner.GeneratePlan(ctx, products)
	if err != nil {
		return nil, apperror.ExternalService("Failed to generate routine", err)
	}

	plan := generated.Plan()
	if err := u.users.SavePlan(ctx, uid, plan); err != nil {
		return nil, toAppError(err)
	}
	logger.Log.Infow("Routine plan generated",
		"uid", uid,
		"products", len(products),
		"morning_steps", len(generated.Morning),
		"evening_steps", len(generated.Evening),
	)
	return plan, nil
}

// statusFor returns the stored status, treating an unrecorded day as empty.
func (u *routineUsecase) statusFor(ctx context.Context, uid, date string) (domain.DailyStatus, error) {
	s, err := u.statuses.Get(ctx, uid, date)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.EmptyStatus(), nil
	}
	return s, err
}

type statusChange func(domain.DailyStatus, domain.Slot, string) domain.DailyStatus

func (u *routineUsecase) updateStatus(ctx context.Context, uid string, input domain.StatusInput, change statusChange) (*domain.StatusReport, error) {
	slot, err := domain.ParseSlot(input.Slot)
	if err != nil {
		return nil, toAppError(err)
	}
	id, err := domain.CleanProductID(input.ProductID)
	if err != nil {
		return nil, toAppError(err)
	}
	date, err := domain.ResolveDate(input.Date, u.now())
	if err != nil {
		return nil, toAppError(err)
	}

	// Every read happens before the write so a failure leaves nothing stored.
	routine, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}
	current, err := u.statusFor(ctx, uid, date)
	if err != nil {
		return nil, toAppError(err)
	}
	next := change(current, slot, id)
	if err := u.statuses.Save(ctx, uid, date, next); err != nil {
		return nil, toAppError(err)
	}
	return domain.NewStatusReport(date, routine, next), nil
}

func (u *routineUsecase) MarkApplied(ctx context.Context, uid string, input domain.StatusInput) (*domain.StatusReport, error) {
	return u.updateStatus(ctx, uid, input, domain.MarkApplied)
}

func (u *routineUsecase) UnmarkApplied(ctx context.Context, uid string, input domain.StatusInput) (*domain.StatusReport, error) {
	return u.updateStatus(ctx, uid, input, domain.UnmarkApplied)
}

func (u *routineUsecase) GetStatus(ctx context.Context, uid, date string) (*domain.StatusReport, error) {
	date, err := domain.ResolveDate(date, u.now())
	if err != nil {
		return nil, toAppError(err)
	}
	status, err := u.statusFor(ctx, uid, date)
	if err != nil {
		return nil, toAppError(err)
	}
	routine, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}
	return domain.NewStatusReport(date, routine, status), nil
}

func (u *routineUsecase) GetMonthlySummary(ctx context.Context, uid string, year, month int) ([]domain.DaySummary, error) {
	routine, err := u.loadRoutine(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}
	days, err := domain.MonthlySummary(year, month, routine, func(date string) (domain.DailyStatus, error) {
		return u.statusFor(ctx, uid, date)
	})
	if err != nil {
		return nil, toAppError(err)
	}
	return days, nil
}
