package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"skincare-backend/internal/domain"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("routine planner is not configured")
	// ErrBadResponse means the model answered with something that is not a plan.
	ErrBadResponse = errors.New("invalid planner response format")
)

// generator is the slice of the genai client the planner uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiPlanner asks Gemini for a morning/evening ordering of the user's
// products, constrained to a JSON response schema.
type GeminiPlanner struct {
	models generator
	model  string
}

// NewGeminiPlanner creates the genai client. It does not contact the API.
func NewGeminiPlanner(ctx context.Context, apiKey, model string) (*GeminiPlanner, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiPlanner{models: client.Models, model: model}, nil
}

func newWithGenerator(models generator, model string) *GeminiPlanner {
	return &GeminiPlanner{models: models, model: model}
}

// GeneratePlan implements domain.RoutinePlanner. There is no retry; the
// caller's context bounds the call.
func (p *GeminiPlanner) GeneratePlan(ctx context.Context, products []domain.Product) (*domain.GeneratedPlan, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   planSchema(),
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(buildPrompt(products)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	return parsePlan(resp.Text())
}

func buildPrompt(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("I have the following products:\n")
	for _, p := range products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = "Unknown Product"
		}
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("\nPlease create a simple and effective morning and evening skincare routine for me. ")
	b.WriteString("For each routine, list the products to use and their recommended order. ")
	b.WriteString("The order should be a number (1, 2, 3...). ")
	b.WriteString("Provide the output in JSON format with 'morning' and 'evening' keys.")
	return b.String()
}

func planSchema() *genai.Schema {
	step := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":  {Type: genai.TypeString},
			"order": {Type: genai.TypeNumber},
		},
		PropertyOrdering: []string{"name", "order"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"morning": {Type: genai.TypeArray, Items: step},
			"evening": {Type: genai.TypeArray, Items: step},
		},
		PropertyOrdering: []string{"morning", "evening"},
	}
}

func parsePlan(text string) (*domain.GeneratedPlan, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrBadResponse)
	}

	var raw struct {
		Morning []rawStep `json:"morning"`
		Evening []rawStep `json:"evening"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if raw.Morning == nil && raw.Evening == nil {
		return nil, fmt.Errorf("%w: missing morning and evening", ErrBadResponse)
	}

	return &domain.GeneratedPlan{
		Morning: toSteps(raw.Morning),
		Evening: toSteps(raw.Evening),
	}, nil
}

// rawStep accepts a fractional order because the schema declares NUMBER.
type rawStep struct {
	Name  string  `json:"name"`
	Order float64 `json:"order"`
}

func toSteps(in []rawStep) []domain.PlanStep {
	out := make([]domain.PlanStep, 0, len(in))
	for _, s := range in {
		out = append(out, domain.PlanStep{Name: s.Name, Order: int(s.Order)})
	}
	return out
}

// Unconfigured stands in when no API key is set, so the rest of the API
// keeps working and only generation fails.
type Unconfigured struct{}

func (Unconfigured) GeneratePlan(context.Context, []domain.Product) (*domain.GeneratedPlan, error) {
	return nil, ErrNotConfigured
}
