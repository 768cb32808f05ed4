package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

// contentGenerator is the subset of *genai.Models used by GeminiBackend.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend implements port.ModelBackend on the Gemini API using
// schema-constrained JSON output.
type GeminiBackend struct {
	models contentGenerator
	model  string
}

// NewGeminiBackend creates a Gemini backend for the given API key and model.
func NewGeminiBackend(ctx context.Context, apiKey, modelName string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiBackend(client.Models, modelName), nil
}

func newGeminiBackend(models contentGenerator, modelName string) *GeminiBackend {
	return &GeminiBackend{models: models, model: modelName}
}

// Name implements port.ModelBackend.
func (b *GeminiBackend) Name() string { return "gemini" }

// Classify implements port.ModelBackend.
func (b *GeminiBackend) Classify(ctx context.Context, prompt string, schema model.OutputSchema) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		CandidateCount:   1,
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(schema),
	}

	resp, err := b.models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return nil, errors.New("gemini returned no response")
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, fmt.Errorf("gemini blocked the prompt: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty candidate (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return []byte(text), nil
}

// geminiSchema translates the output schema into the Gemini response schema.
func geminiSchema(schema model.OutputSchema) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Title:       schema.Name,
		Description: schema.Description,
		Properties: map[string]*genai.Schema{
			schema.StatusField: {
				Type:   genai.TypeString,
				Format: "enum",
				Enum:   append([]string(nil), schema.StatusValues...),
			},
			schema.ExplanationField: {
				Type:        genai.TypeString,
				Description: "A brief, one-sentence explanation of the status.",
			},
		},
		Required:         schema.Fields(),
		PropertyOrdering: schema.Fields(),
	}
}
