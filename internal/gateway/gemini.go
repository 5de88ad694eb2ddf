package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for all pipeline stages.
const DefaultModelName = "gemini-flash-latest"

// Gemini is a thin Model implementation over the official genai client.
// Cross-cutting concerns (retry, rate limiting, logging) live in Client.
type Gemini struct {
	cli   *genai.Client
	model string
}

// NewGemini creates a Gemini model. apiKey must be non-empty; model falls
// back to DefaultModelName when empty.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if model == "" {
		model = DefaultModelName
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gemini{cli: cli, model: model}, nil
}

// Generate performs one completion attempt and returns the trimmed text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty model response")
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

// rateLimited reports whether err is a rate-limit signal worth retrying.
// Checks the typed API error first, then falls back to the usual substrings;
// anything else is treated as non-transient.
func rateLimited(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range []string{"429", "rate limit", "quota", "resource exhausted", "resource_exhausted"} {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
