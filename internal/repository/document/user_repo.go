package document

import (
	"context"
	"errors"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/docstore"
)

type userRepo struct {
	store docstore.Store
}

func NewUserRepository(store docstore.Store) domain.UserRepository {
	return &userRepo{store: store}
}

func (r *userRepo) GetByID(ctx context.Context, uid string) (*domain.UserRecord, error) {
	doc, err := r.store.Get(ctx, usersCollection, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rec := &domain.UserRecord{UID: uid}
	rec.Routine, _ = doc["routine"].(map[string]any)
	rec.SkinProfile, _ = doc["skinProfile"].(map[string]any)
	rec.Products = decodeEmbeddedProducts(doc["products"])
	return rec, nil
}

// decodeEmbeddedProducts reads the optional products list some user
// documents carry inline. Entries without a name are skipped.
func decodeEmbeddedProducts(v any) []domain.Product {
	list, _ := v.([]any)
	var out []domain.Product
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := productFromDocument("", m)
		if id, ok := m["id"].(string); ok {
			p.ID = id
		}
		if p.Name != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *userRepo) SaveRoutine(ctx context.Context, uid string, routine domain.Routine) error {
	return r.store.Set(ctx, usersCollection, uid, docstore.Document{
		"routine": routine.Document(),
	}, docstore.Merge)
}

// SavePlan rewrites the whole routine with the new plan. The stored routine
// is normalized first, so a legacy flat product list is migrated on the way.
func (r *userRepo) SavePlan(ctx context.Context, uid string, plan domain.Plan) error {
	rec, err := r.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	routine := domain.Normalize(rec.Routine)
	routine.Plan = plan
	return r.SaveRoutine(ctx, uid, routine)
}

func (r *userRepo) SaveSkinProfile(ctx context.Context, uid string, profile domain.SkinProfile) error {
	return r.store.Set(ctx, usersCollection, uid, docstore.Document{
		"skinProfile": profile.Document(),
	}, docstore.Merge)
}
