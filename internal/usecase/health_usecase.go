package usecase

import "context"

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// Pinger is satisfied by the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	store Pinger
}

func NewHealthUsecase(store Pinger) HealthUsecase {
	return &healthUsecase{store: store}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"store":  "ok",
	}
	if u.store == nil {
		status["store"] = "unconfigured"
		return status
	}
	if err := u.store.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["store"] = "unreachable"
	}
	return status
}
