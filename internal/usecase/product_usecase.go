package usecase

import (
	"context"
	"errors"
	"strings"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type productUsecase struct {
	repo     domain.ProductRepository
	validate *validator.Validate
}

func NewProductUsecase(repo domain.ProductRepository, validate *validator.Validate) domain.ProductUsecase {
	return &productUsecase{
		repo:     repo,
		validate: validate,
	}
}

func (u *productUsecase) List(ctx context.Context) ([]domain.Product, error) {
	products, err := u.repo.List(ctx)
	if err != nil {
		return nil, toAppError(err)
	}
	return products, nil
}

func (u *productUsecase) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := u.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, toAppError(err)
	}
	return product, nil
}

// Create ignores any client supplied id.
func (u *productUsecase) Create(ctx context.Context, product *domain.Product) error {
	product.ID = ""
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	product.Brand = strings.TrimSpace(product.Brand)

	if err := u.validate.Struct(product); err != nil {
		return apperror.Invalid(err)
	}
	return toAppError(u.repo.Create(ctx, product))
}

func (u *productUsecase) ListOwned(ctx context.Context, uid string) ([]domain.Product, error) {
	products, err := u.repo.ListLinked(ctx, uid)
	if err != nil {
		return nil, toAppError(err)
	}
	return products, nil
}

func (u *productUsecase) Link(ctx context.Context, uid, productID string) error {
	id, err := domain.CleanProductID(productID)
	if err != nil {
		return toAppError(err)
	}
	if _, err := u.Get(ctx, id); err != nil {
		return err
	}
	return toAppError(u.repo.Link(ctx, uid, id))
}

func (u *productUsecase) Unlink(ctx context.Context, uid, productID string) error {
	id, err := domain.CleanProductID(productID)
	if err != nil {
		return toAppError(err)
	}
	return toAppError(u.repo.Unlink(ctx, uid, id))
}
