package domain

import "context"

// SkinProfile is stored under users/{uid}.skinProfile.
type SkinProfile struct {
	Age             int      `json:"age" validate:"min=1,max=120"`
	Gender          string   `json:"gender" validate:"max=32"`
	SkinType        string   `json:"skinType" validate:"max=64"`
	Concerns        []string `json:"concerns" validate:"max=20,dive,max=100"`
	Allergies       []string `json:"allergies" validate:"max=50,dive,max=100"`
	AdditionalNotes string   `json:"additionalNotes" validate:"max=1000"`
}

// DefaultSkinProfile is returned to users who never saved one.
func DefaultSkinProfile() SkinProfile {
	return SkinProfile{Age: 18, Concerns: []string{}, Allergies: []string{}}
}

// Document converts the profile into its stored mapping.
func (p SkinProfile) Document() map[string]any {
	return map[string]any{
		"age":             p.Age,
		"gender":          p.Gender,
		"skinType":        p.SkinType,
		"concerns":        stringsToAny(p.Concerns),
		"allergies":       stringsToAny(p.Allergies),
		"additionalNotes": p.AdditionalNotes,
	}
}

// SkinProfileFromDocument reads a stored profile, filling defaults for
// missing fields.
func SkinProfileFromDocument(raw map[string]any) SkinProfile {
	p := DefaultSkinProfile()
	if age, ok := raw["age"].(float64); ok && age > 0 {
		p.Age = int(age)
	}
	p.Gender, _ = raw["gender"].(string)
	p.SkinType, _ = raw["skinType"].(string)
	p.AdditionalNotes, _ = raw["additionalNotes"].(string)
	p.Concerns = anyToStrings(raw["concerns"])
	p.Allergies = anyToStrings(raw["allergies"])
	return p
}

func anyToStrings(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, uid string) (*SkinProfile, error)
	SaveProfile(ctx context.Context, uid string, profile *SkinProfile) error
}
