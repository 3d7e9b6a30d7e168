package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"
)

// ContentGenerator is the single entrypoint the assistant needs from a
// generative-text backend. Tests substitute fakes.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// UnavailableGenerator always errors, which makes the assistant serve
// its canned fallbacks. Used when no API key is configured.
type UnavailableGenerator struct{}

func (UnavailableGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("content generator not configured")
}

type geminiGenerator struct {
	client *genai.Client
	log    *slog.Logger
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator builds a ContentGenerator over the Gemini API.
// Model name comes from GEMINI_MODEL (default gemini-1.5-flash).
func NewGeminiGenerator(ctx context.Context, log *slog.Logger) (ContentGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}

	// Responses go to students, some of them minors. Keep the provider's
	// safety filters at their defaults and add our own blocklist on top.
	cfg := &genai.GenerateContentConfig{}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", model)
	return &geminiGenerator{
		client: client,
		log:    logger,
		model:  model,
		config: cfg,
	}, nil
}

func (g *geminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.config)
	if err != nil {
		g.log.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		g.log.WarnContext(ctx, "Gemini request blocked", "reason", reason)
		return "", fmt.Errorf("request blocked by safety filter: %s", reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned empty content")
	}

	return resp.Text(), nil
}
