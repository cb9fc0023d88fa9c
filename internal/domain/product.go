package domain

import "context"

// Product is a catalog entry.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required,max=100"`
	Brand    string `json:"brand,omitempty" validate:"max=100"`
}

// ProductRepository reads and writes the products and user_products collections.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product *Product) error

	// ListLinked resolves the user's links to catalog products. Links whose
	// product no longer exists are skipped.
	ListLinked(ctx context.Context, uid string) ([]Product, error)
	Link(ctx context.Context, uid, productID string) error
	Unlink(ctx context.Context, uid, productID string) error
}

type ProductUsecase interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product *Product) error

	ListOwned(ctx context.Context, uid string) ([]Product, error)
	Link(ctx context.Context, uid, productID string) error
	Unlink(ctx context.Context, uid, productID string) error
}

// PlanStep is one product in a generated routine, with its position.
type PlanStep struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// GeneratedPlan is what a RoutinePlanner returns.
type GeneratedPlan struct {
	Morning []PlanStep `json:"morning"`
	Evening []PlanStep `json:"evening"`
}

// Plan converts the generated plan into the opaque mapping stored on the routine.
func (g GeneratedPlan) Plan() Plan {
	return Plan{
		"morning": stepsToAny(g.Morning),
		"evening": stepsToAny(g.Evening),
	}
}

func stepsToAny(steps []PlanStep) []any {
	out := make([]any, len(steps))
	for i, s := range steps {
		out[i] = map[string]any{"name": s.Name, "order": s.Order}
	}
	return out
}

// RoutinePlanner asks an external model for a morning/evening ordering of
// the given products.
type RoutinePlanner interface {
	GeneratePlan(ctx context.Context, products []Product) (*GeneratedPlan, error)
}
