package document

import (
	"context"
	"errors"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/docstore"
)

type statusRepo struct {
	store docstore.Store
}

func NewStatusRepository(store docstore.Store) domain.StatusRepository {
	return &statusRepo{store: store}
}

func (r *statusRepo) Get(ctx context.Context, uid, date string) (domain.DailyStatus, error) {
	doc, err := r.store.Get(ctx, dailyStatusCollection, domain.StatusKey(uid, date))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.EmptyStatus(), domain.ErrNotFound
		}
		return domain.DailyStatus{}, err
	}
	return domain.NormalizeStatus(doc), nil
}

func (r *statusRepo) Save(ctx context.Context, uid, date string, status domain.DailyStatus) error {
	return r.store.Set(ctx, dailyStatusCollection, domain.StatusKey(uid, date), docstore.Document{
		"uid":  uid,
		"date": date,
		"am":   status.AM,
		"pm":   status.PM,
	}, docstore.Replace)
}
