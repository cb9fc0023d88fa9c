package document

import (
	"context"
	"errors"
	"fmt"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/docstore"

	"github.com/google/uuid"
)

type productRepo struct {
	store docstore.Store
}

func NewProductRepository(store docstore.Store) domain.ProductRepository {
	return &productRepo{store: store}
}

func productFromDocument(id string, doc map[string]any) domain.Product {
	p := domain.Product{ID: id}
	p.Name, _ = doc["name"].(string)
	p.Category, _ = doc["category"].(string)
	p.Brand, _ = doc["brand"].(string)
	return p
}

func (r *productRepo) List(ctx context.Context) ([]domain.Product, error) {
	snaps, err := r.store.List(ctx, productsCollection)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, productFromDocument(s.Key, s.Data))
	}
	return out, nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.store.Get(ctx, productsCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p := productFromDocument(id, doc)
	return &p, nil
}

// Create assigns a new id when the product has none.
func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	doc := docstore.Document{
		"name":     product.Name,
		"category": product.Category,
	}
	if product.Brand != "" {
		doc["brand"] = product.Brand
	}
	return r.store.Set(ctx, productsCollection, product.ID, doc, docstore.Replace)
}

func linkKey(uid, productID string) string {
	return uid + "_" + productID
}

func (r *productRepo) ListLinked(ctx context.Context, uid string) ([]domain.Product, error) {
	links, err := r.store.Query(ctx, userProductsCollection, "uid", uid)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(links))
	for _, link := range links {
		pid, _ := link.Data["product_id"].(string)
		if pid == "" {
			continue
		}
		p, err := r.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve linked product %s: %w", pid, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *productRepo) Link(ctx context.Context, uid, productID string) error {
	return r.store.Set(ctx, userProductsCollection, linkKey(uid, productID), docstore.Document{
		"uid":        uid,
		"product_id": productID,
	}, docstore.Replace)
}

func (r *productRepo) Unlink(ctx context.Context, uid, productID string) error {
	err := r.store.Delete(ctx, userProductsCollection, linkKey(uid, productID))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}
