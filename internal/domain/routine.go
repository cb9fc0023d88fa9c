package domain

import (
	"context"
	"strings"
)

// Slot is a time-of-day bucket a routine product belongs to.
type Slot string

const (
	SlotAM Slot = "am"
	SlotPM Slot = "pm"
)

// Slots lists the slots in display order.
var Slots = []Slot{SlotAM, SlotPM}

// ParseSlot accepts "am"/"pm" in any case, surrounded by optional whitespace.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case SlotAM:
		return SlotAM, nil
	case SlotPM:
		return SlotPM, nil
	}
	return "", ErrInvalidSlot
}

// CleanProductID trims the id and rejects it if nothing is left.
func CleanProductID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidProductID
	}
	return id, nil
}

// DefaultTime is the slot-name list a routine starts with.
var DefaultTime = []string{"morning", "evening"}

// ProductRef points at a catalog product from inside a routine slot.
type ProductRef struct {
	ID string `json:"id"`
}

// SlotProducts holds the ordered product membership of each slot.
type SlotProducts struct {
	AM []ProductRef `json:"am"`
	PM []ProductRef `json:"pm"`
}

// Get returns the membership of slot. Unknown slots have no products.
func (p SlotProducts) Get(slot Slot) []ProductRef {
	switch slot {
	case SlotAM:
		return p.AM
	case SlotPM:
		return p.PM
	}
	return nil
}

func (p *SlotProducts) set(slot Slot, refs []ProductRef) {
	switch slot {
	case SlotAM:
		p.AM = refs
	case SlotPM:
		p.PM = refs
	}
}

// Plan is the externally generated ordering, kept verbatim.
type Plan map[string]any

// Routine is a user's slot membership plus the generated plan.
type Routine struct {
	Time     []string     `json:"time"`
	Products SlotProducts `json:"products"`
	Plan     Plan         `json:"plan"`
}

// DefaultRoutine is what a user without a stored routine sees.
func DefaultRoutine() Routine {
	return Normalize(nil)
}

// Clone returns a copy whose slices can be modified independently.
// Plan is shared; nothing in this package mutates it.
func (r Routine) Clone() Routine {
	return Routine{
		Time: append([]string{}, r.Time...),
		Products: SlotProducts{
			AM: append([]ProductRef{}, r.Products.AM...),
			PM: append([]ProductRef{}, r.Products.PM...),
		},
		Plan: r.Plan,
	}
}

// Document converts the routine into the mapping stored under users/{uid}.routine.
func (r Routine) Document() map[string]any {
	plan := map[string]any(r.Plan)
	if plan == nil {
		plan = map[string]any{}
	}
	return map[string]any{
		"time":     stringsToAny(r.Time),
		"products": map[string]any{"am": refsToAny(r.Products.AM), "pm": refsToAny(r.Products.PM)},
		"plan":     plan,
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func refsToAny(refs []ProductRef) []any {
	out := make([]any, len(refs))
	for i, ref := range refs {
		out[i] = map[string]any{"id": ref.ID}
	}
	return out
}

// productsShape tags which of the accepted layouts a stored "products" value uses.
type productsShape int

const (
	shapeAbsent productsShape = iota
	shapeSlotted
	shapeFlat
	shapeUnrecognized
)

func classifyProducts(v any) productsShape {
	switch v.(type) {
	case nil:
		return shapeAbsent
	case map[string]any:
		return shapeSlotted
	case []any:
		return shapeFlat
	}
	return shapeUnrecognized
}

// ValidProductsShape reports whether v is a products value Normalize understands:
// absent, a flat list, or an am/pm mapping.
func ValidProductsShape(v any) bool {
	return classifyProducts(v) != shapeUnrecognized
}

// Normalize coerces a stored or submitted routine mapping into a Routine.
// It never fails; anything unusable is replaced by an empty default.
// A flat products list is read as the morning slot.
func Normalize(raw map[string]any) Routine {
	r := Routine{
		Time:     cleanTime(raw["time"]),
		Products: NormalizeProducts(raw["products"]),
		Plan:     Plan{},
	}
	if plan, ok := raw["plan"].(map[string]any); ok && plan != nil {
		r.Plan = Plan(plan)
	}
	return r
}

// NormalizeProducts resolves the products shape once, so callers past this
// point only deal with SlotProducts.
func NormalizeProducts(v any) SlotProducts {
	p := SlotProducts{AM: []ProductRef{}, PM: []ProductRef{}}
	switch classifyProducts(v) {
	case shapeSlotted:
		m := v.(map[string]any)
		p.AM = cleanRefs(m["am"])
		p.PM = cleanRefs(m["pm"])
	case shapeFlat:
		p.AM = cleanRefs(v)
	}
	return p
}

func cleanTime(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]string{}, DefaultTime...)
	}
	return out
}

func cleanRefs(v any) []ProductRef {
	list, _ := v.([]any)
	out := make([]ProductRef, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entry["id"].(string)
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, ProductRef{ID: id})
		}
	}
	return out
}

func containsRef(refs []ProductRef, id string) bool {
	for _, ref := range refs {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// AddProduct appends productID to the slot. Adding an id the slot already
// holds is an error, unlike RemoveProduct which tolerates absent ids.
func AddProduct(r Routine, slot string, productID string) (Routine, error) {
	s, err := ParseSlot(slot)
	if err != nil {
		return r, err
	}
	id, err := CleanProductID(productID)
	if err != nil {
		return r, err
	}
	if containsRef(r.Products.Get(s), id) {
		return r, ErrAlreadyPresent
	}

	out := r.Clone()
	out.Products.set(s, append(out.Products.Get(s), ProductRef{ID: id}))
	return out, nil
}

// RemoveProduct drops productID from slot, or from both slots when slot is
// empty. Ids that are not present are ignored.
func RemoveProduct(r Routine, slot Slot, productID string) Routine {
	id := strings.TrimSpace(productID)
	out := r.Clone()
	for _, s := range Slots {
		if slot != "" && slot != s {
			continue
		}
		kept := make([]ProductRef, 0, len(out.Products.Get(s)))
		for _, ref := range out.Products.Get(s) {
			if ref.ID != id {
				kept = append(kept, ref)
			}
		}
		out.Products.set(s, kept)
	}
	return out
}

// RoutineUsecase is the routine and daily-status API exposed over HTTP.
type RoutineUsecase interface {
	GetRoutine(ctx context.Context, uid string) (*Routine, error)
	SaveRoutine(ctx context.Context, uid string, input RoutineInput) (*Routine, error)
	AddProduct(ctx context.Context, uid, slot, productID string) (*Routine, error)
	RemoveProduct(ctx context.Context, uid, slot, productID string) (*Routine, error)
	GeneratePlan(ctx context.Context, uid string) (Plan, error)

	MarkApplied(ctx context.Context, uid string, input StatusInput) (*StatusReport, error)
	UnmarkApplied(ctx context.Context, uid string, input StatusInput) (*StatusReport, error)
	GetStatus(ctx context.Context, uid, date string) (*StatusReport, error)
	GetMonthlySummary(ctx context.Context, uid string, year, month int) ([]DaySummary, error)
	// ExportMonthlySummary renders the monthly summary as "xlsx" or "csv" and
	// returns the file body with a suggested file name.
	ExportMonthlySummary(ctx context.Context, uid string, year, month int, format string) ([]byte, string, error)
}

// RoutineInput is the body of a full routine replacement. Products is kept
// raw so either accepted shape can be submitted.
type RoutineInput struct {
	Time     []string
	Products any
}
