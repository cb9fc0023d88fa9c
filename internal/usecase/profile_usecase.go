package usecase

import (
	"context"
	"errors"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	users    domain.UserRepository
	validate *validator.Validate
}

func NewProfileUsecase(users domain.UserRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		users:    users,
		validate: validate,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context, uid string) (*domain.SkinProfile, error) {
	rec, err := u.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p := domain.DefaultSkinProfile()
			return &p, nil
		}
		return nil, toAppError(err)
	}
	if rec.SkinProfile == nil {
		p := domain.DefaultSkinProfile()
		return &p, nil
	}
	p := domain.SkinProfileFromDocument(rec.SkinProfile)
	return &p, nil
}

func (u *profileUsecase) SaveProfile(ctx context.Context, uid string, profile *domain.SkinProfile) error {
	if err := u.validate.Struct(profile); err != nil {
		return apperror.Invalid(err)
	}
	if profile.Concerns == nil {
		profile.Concerns = []string{}
	}
	if profile.Allergies == nil {
		profile.Allergies = []string{}
	}
	return toAppError(u.users.SaveSkinProfile(ctx, uid, *profile))
}
