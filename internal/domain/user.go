package domain

import "context"

// UserRecord is the decoded users/{uid} document. Routine and SkinProfile
// are left raw; callers normalize them.
type UserRecord struct {
	UID         string
	Routine     map[string]any
	SkinProfile map[string]any
	// Products embedded directly on the user document, if any.
	Products []Product
}

// UserRepository persists the users collection. Writes merge into the
// existing document so unrelated fields survive.
type UserRepository interface {
	// GetByID returns ErrNotFound when the user has no document.
	GetByID(ctx context.Context, uid string) (*UserRecord, error)
	SaveRoutine(ctx context.Context, uid string, routine Routine) error
	// SavePlan replaces routine.plan and keeps the slot membership.
	SavePlan(ctx context.Context, uid string, plan Plan) error
	SaveSkinProfile(ctx context.Context, uid string, profile SkinProfile) error
}

// IdentityVerifier turns a bearer token into the uid it was issued for.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
