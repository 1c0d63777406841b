package suggest

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Gemini is a Generator backed by the genai client. Credentials come from
// the environment (GEMINI_API_KEY or GOOGLE_API_KEY).
type Gemini struct {
	cli   *genai.Client
	model string
}

var _ Generator = (*Gemini)(nil)

// NewGemini creates a Gemini generator for model.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{cli: cli, model: model}, nil
}

// Model reports the configured model name.
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.cli == nil {
		return "", errors.New("suggest: gemini client not initialised")
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.1),
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
