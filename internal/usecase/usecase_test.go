package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"skincare-backend/internal/domain"
	"skincare-backend/internal/usecase"
	"skincare-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, uid string) (*domain.UserRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRecord), args.Error(1)
}
func (m *MockUserRepo) SaveRoutine(ctx context.Context, uid string, r domain.Routine) error {
	return m.Called(ctx, uid, r).Error(0)
}
func (m *MockUserRepo) SavePlan(ctx context.Context, uid string, plan domain.Plan) error {
	return m.Called(ctx, uid, plan).Error(0)
}
func (m *MockUserRepo) SaveSkinProfile(ctx context.Context, uid string, p domain.SkinProfile) error {
	return m.Called(ctx, uid, p).Error(0)
}

type MockStatusRepo struct {
	mock.Mock
}

func (m *MockStatusRepo) Get(ctx context.Context, uid, date string) (domain.DailyStatus, error) {
	args := m.Called(ctx, uid, date)
	return args.Get(0).(domain.DailyStatus), args.Error(1)
}
func (m *MockStatusRepo) Save(ctx context.Context, uid, date string, s domain.DailyStatus) error {
	return m.Called(ctx, uid, date, s).Error(0)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProductRepo) ListLinked(ctx context.Context, uid string) ([]domain.Product, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockProductRepo) Link(ctx context.Context, uid, id string) error {
	return m.Called(ctx, uid, id).Error(0)
}
func (m *MockProductRepo) Unlink(ctx context.Context, uid, id string) error {
	return m.Called(ctx, uid, id).Error(0)
}

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) GeneratePlan(ctx context.Context, products []domain.Product) (*domain.GeneratedPlan, error) {
	args := m.Called(ctx, products)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedPlan), args.Error(1)
}

var fixedNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type routineDeps struct {
	users    *MockUserRepo
	statuses *MockStatusRepo
	products *MockProductRepo
	planner  *MockPlanner
	uc       domain.RoutineUsecase
}

func newRoutineDeps() *routineDeps {
	d := &routineDeps{
		users:    new(MockUserRepo),
		statuses: new(MockStatusRepo),
		products: new(MockProductRepo),
		planner:  new(MockPlanner),
	}
	d.uc = usecase.NewRoutineUsecase(d.users, d.statuses, d.products, d.planner, func() time.Time { return fixedNow })
	return d
}

func storedRoutine(am, pm []string) map[string]any {
	refs := func(ids []string) []any {
		out := []any{}
		for _, id := range ids {
			out = append(out, map[string]any{"id": id})
		}
		return out
	}
	return map[string]any{
		"time":     []any{"morning", "evening"},
		"products": map[string]any{"am": refs(am), "pm": refs(pm)},
		"plan":     map[string]any{"morning": []any{}},
	}
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestGetRoutine(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return default routine when user has no document", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		r, err := d.uc.GetRoutine(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRoutine(), *r)
	})

	t.Run("Should surface store failures as internal errors", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, errors.New("connection reset"))

		_, err := d.uc.GetRoutine(ctx, "u1")
		requireAppError(t, err, http.StatusInternalServerError)
	})
}

func TestSaveRoutine(t *testing.T) {
	ctx := context.Background()

	t.Run("Should keep the existing plan", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1", Routine: storedRoutine([]string{"old"}, nil)}, nil)
		d.users.On("SaveRoutine", ctx, "u1", mock.AnythingOfType("domain.Routine")).Return(nil)

		r, err := d.uc.SaveRoutine(ctx, "u1", domain.RoutineInput{
			Products: []any{map[string]any{"id": "p1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.ProductRef{{ID: "p1"}}, r.Products.AM)
		assert.Empty(t, r.Products.PM)
		assert.Equal(t, domain.DefaultTime, r.Time)
		assert.Contains(t, r.Plan, "morning")
		d.users.AssertExpectations(t)
	})

	t.Run("Should reject a malformed products value", func(t *testing.T) {
		d := newRoutineDeps()
		_, err := d.uc.SaveRoutine(ctx, "u1", domain.RoutineInput{Products: "p1"})
		requireAppError(t, err, http.StatusBadRequest)
		d.users.AssertNotCalled(t, "SaveRoutine", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should default to the morning slot", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)
		d.users.On("SaveRoutine", ctx, "u1", mock.AnythingOfType("domain.Routine")).Return(nil)

		r, err := d.uc.AddProduct(ctx, "u1", "", " p1 ")
		require.NoError(t, err)
		assert.Equal(t, []domain.ProductRef{{ID: "p1"}}, r.Products.AM)
	})

	t.Run("Should reject an invalid slot", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		_, err := d.uc.AddProduct(ctx, "u1", "noon", "p1")
		requireAppError(t, err, http.StatusBadRequest)
		d.users.AssertNotCalled(t, "SaveRoutine", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject a duplicate without writing", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1", Routine: storedRoutine([]string{"p1"}, nil)}, nil)

		_, err := d.uc.AddProduct(ctx, "u1", "AM", "p1")
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.ErrorIs(t, appErr, domain.ErrAlreadyPresent)
		d.users.AssertNotCalled(t, "SaveRoutine", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should remove from both slots when no slot is given", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1", Routine: storedRoutine([]string{"p1", "p2"}, []string{"p1"})}, nil)
		d.users.On("SaveRoutine", ctx, "u1", mock.AnythingOfType("domain.Routine")).Return(nil)

		r, err := d.uc.RemoveProduct(ctx, "u1", "", "p1")
		require.NoError(t, err)
		assert.Equal(t, []domain.ProductRef{{ID: "p2"}}, r.Products.AM)
		assert.Empty(t, r.Products.PM)
	})

	t.Run("Should reject an invalid slot", func(t *testing.T) {
		d := newRoutineDeps()
		_, err := d.uc.RemoveProduct(ctx, "u1", "evening", "p1")
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Should reject a blank id", func(t *testing.T) {
		d := newRoutineDeps()
		_, err := d.uc.RemoveProduct(ctx, "u1", "pm", "  ")
		requireAppError(t, err, http.StatusBadRequest)
	})
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()
	linked := []domain.Product{{ID: "p1", Name: "Cleanser"}, {ID: "p2", Name: "Sunscreen"}}
	generated := &domain.GeneratedPlan{
		Morning: []domain.PlanStep{{Name: "Cleanser", Order: 1}, {Name: "Sunscreen", Order: 2}},
		Evening: []domain.PlanStep{{Name: "Cleanser", Order: 1}},
	}

	t.Run("Should fail with 404 when user has no document", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		_, err := d.uc.GeneratePlan(ctx, "u1")
		appErr := requireAppError(t, err, http.StatusNotFound)
		assert.Equal(t, "User not found", appErr.Message)
	})

	t.Run("Should fail with 400 when user has no products", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1"}, nil)
		d.products.On("ListLinked", ctx, "u1").Return([]domain.Product{}, nil)

		_, err := d.uc.GeneratePlan(ctx, "u1")
		requireAppError(t, err, http.StatusBadRequest)
		d.planner.AssertNotCalled(t, "GeneratePlan", mock.Anything, mock.Anything)
	})

	t.Run("Should store the plan built from linked products", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1"}, nil)
		d.products.On("ListLinked", ctx, "u1").Return(linked, nil)
		d.planner.On("GeneratePlan", ctx, linked).Return(generated, nil)
		d.users.On("SavePlan", ctx, "u1", generated.Plan()).Return(nil)

		plan, err := d.uc.GeneratePlan(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, generated.Plan(), plan)
		d.users.AssertExpectations(t)
	})

	t.Run("Should prefer products embedded on the user", func(t *testing.T) {
		d := newRoutineDeps()
		embedded := []domain.Product{{Name: "Toner"}}
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1", Products: embedded}, nil)
		d.planner.On("GeneratePlan", ctx, embedded).Return(generated, nil)
		d.users.On("SavePlan", ctx, "u1", mock.Anything).Return(nil)

		_, err := d.uc.GeneratePlan(ctx, "u1")
		require.NoError(t, err)
		d.products.AssertNotCalled(t, "ListLinked", mock.Anything, mock.Anything)
	})

	t.Run("Should report planner failures as 500 without saving", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1"}, nil)
		d.products.On("ListLinked", ctx, "u1").Return(linked, nil)
		d.planner.On("GeneratePlan", ctx, linked).Return(nil, errors.New("quota exceeded"))

		_, err := d.uc.GeneratePlan(ctx, "u1")
		requireAppError(t, err, http.StatusInternalServerError)
		d.users.AssertNotCalled(t, "SavePlan", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mark applied for today and report completion", func(t *testing.T) {
		d := newRoutineDeps()
		d.statuses.On("Get", ctx, "u1", "2024-03-05").Return(domain.EmptyStatus(), domain.ErrNotFound)
		d.statuses.On("Save", ctx, "u1", "2024-03-05", domain.DailyStatus{AM: []string{"p1"}, PM: []string{}}).Return(nil)
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1", Routine: storedRoutine([]string{"p1", "p2"}, nil)}, nil)

		report, err := d.uc.MarkApplied(ctx, "u1", domain.StatusInput{ProductID: "p1", Slot: "am"})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", report.Date)
		assert.Equal(t, 50.0, report.Completion.AM)
		assert.Equal(t, 0.0, report.Completion.PM)
		d.statuses.AssertExpectations(t)
	})

	t.Run("Should unmark on an explicit date", func(t *testing.T) {
		d := newRoutineDeps()
		d.statuses.On("Get", ctx, "u1", "2024-01-01").Return(domain.DailyStatus{AM: []string{}, PM: []string{"p1", "p2"}}, nil)
		d.statuses.On("Save", ctx, "u1", "2024-01-01", domain.DailyStatus{AM: []string{}, PM: []string{"p2"}}).Return(nil)
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		report, err := d.uc.UnmarkApplied(ctx, "u1", domain.StatusInput{ProductID: "p1", Slot: "pm", Date: "2024-01-01"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p2"}, report.Status.PM)
	})

	t.Run("Should reject a malformed date", func(t *testing.T) {
		d := newRoutineDeps()
		_, err := d.uc.MarkApplied(ctx, "u1", domain.StatusInput{ProductID: "p1", Slot: "am", Date: "05/03/2024"})
		requireAppError(t, err, http.StatusBadRequest)
		d.statuses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should not write the status when the routine cannot be read", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, errors.New("store unavailable"))

		_, err := d.uc.MarkApplied(ctx, "u1", domain.StatusInput{ProductID: "p1", Slot: "am"})
		requireAppError(t, err, http.StatusInternalServerError)
		d.statuses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should read an unrecorded day as empty", func(t *testing.T) {
		d := newRoutineDeps()
		d.statuses.On("Get", ctx, "u1", "2024-03-05").Return(domain.EmptyStatus(), domain.ErrNotFound)
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		report, err := d.uc.GetStatus(ctx, "u1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.EmptyStatus(), report.Status)
	})
}

func TestMonthlySummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return one entry per day", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(&domain.UserRecord{UID: "u1", Routine: storedRoutine([]string{"p1"}, nil)}, nil)
		d.statuses.On("Get", ctx, "u1", "2024-02-10").Return(domain.DailyStatus{AM: []string{"p1"}, PM: []string{}}, nil)
		d.statuses.On("Get", ctx, "u1", mock.Anything).Return(domain.EmptyStatus(), domain.ErrNotFound)

		days, err := d.uc.GetMonthlySummary(ctx, "u1", 2024, 2)
		require.NoError(t, err)
		require.Len(t, days, 29)
		assert.Equal(t, "2024-02-01", days[0].Date)
		assert.Equal(t, 100.0, days[9].Completion.AM)
		assert.Equal(t, 0.0, days[10].Completion.AM)
	})

	t.Run("Should reject an invalid month", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		_, err := d.uc.GetMonthlySummary(ctx, "u1", 2024, 13)
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Should abort on a store failure", func(t *testing.T) {
		d := newRoutineDeps()
		d.users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)
		d.statuses.On("Get", ctx, "u1", mock.Anything).Return(domain.DailyStatus{}, errors.New("timeout"))

		_, err := d.uc.GetMonthlySummary(ctx, "u1", 2024, 2)
		requireAppError(t, err, http.StatusInternalServerError)
	})
}

func TestProductUsecase(t *testing.T) {
	ctx := context.Background()
	validate := validator.New()

	t.Run("Should validate new products", func(t *testing.T) {
		repo := new(MockProductRepo)
		uc := usecase.NewProductUsecase(repo, validate)

		err := uc.Create(ctx, &domain.Product{Name: "  ", Category: "cleanser"})
		requireAppError(t, err, http.StatusBadRequest)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should drop client supplied ids", func(t *testing.T) {
		repo := new(MockProductRepo)
		uc := usecase.NewProductUsecase(repo, validate)
		repo.On("Create", ctx, mock.MatchedBy(func(p *domain.Product) bool { return p.ID == "" })).Return(nil)

		err := uc.Create(ctx, &domain.Product{ID: "forced", Name: "Serum", Category: "treatment"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Should 404 when linking an unknown product", func(t *testing.T) {
		repo := new(MockProductRepo)
		uc := usecase.NewProductUsecase(repo, validate)
		repo.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)

		err := uc.Link(ctx, "u1", "missing")
		requireAppError(t, err, http.StatusNotFound)
		repo.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should link an existing product", func(t *testing.T) {
		repo := new(MockProductRepo)
		uc := usecase.NewProductUsecase(repo, validate)
		repo.On("GetByID", ctx, "p1").Return(&domain.Product{ID: "p1"}, nil)
		repo.On("Link", ctx, "u1", "p1").Return(nil)

		require.NoError(t, uc.Link(ctx, "u1", " p1"))
		repo.AssertExpectations(t)
	})
}

func TestProfileUsecase(t *testing.T) {
	ctx := context.Background()
	validate := validator.New()

	t.Run("Should return defaults for a new user", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewProfileUsecase(users, validate)
		users.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)

		p, err := uc.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSkinProfile(), *p)
	})

	t.Run("Should reject an out of range age", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewProfileUsecase(users, validate)

		err := uc.SaveProfile(ctx, "u1", &domain.SkinProfile{Age: 300})
		requireAppError(t, err, http.StatusBadRequest)
		users.AssertNotCalled(t, "SaveSkinProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should save a valid profile", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewProfileUsecase(users, validate)
		users.On("SaveSkinProfile", ctx, "u1", domain.SkinProfile{
			Age: 25, SkinType: "dry", Concerns: []string{}, Allergies: []string{},
		}).Return(nil)

		require.NoError(t, uc.SaveProfile(ctx, "u1", &domain.SkinProfile{Age: 25, SkinType: "dry"}))
		users.AssertExpectations(t)
	})
}
