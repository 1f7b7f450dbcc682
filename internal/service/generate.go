package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafitra/prompt-to-app/internal/llm"
	"github.com/rs/zerolog/log"
)

// ErrEmptyPrompt rejects blank prompts before any provider is contacted.
var ErrEmptyPrompt = errors.New("prompt required")

// GenerateService fronts the LLM router for one-shot text generation.
type GenerateService struct {
	llmRouter   *llm.Router
	temperature float64
	maxTokens   int
}

// NewGenerateService creates a new generate service
func NewGenerateService(llmRouter *llm.Router, temperature float64, maxTokens int) *GenerateService {
	return &GenerateService{
		llmRouter:   llmRouter,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// GenerateText forwards the prompt to the configured provider and returns
// the raw completion. Upstream failures surface to the caller as-is and
// are never retried. When the default provider has no credentials the
// keyless fallback provider answers instead.
func (s *GenerateService) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		provider, err = s.llmRouter.GetProvider("fallback")
		if err != nil {
			return "", fmt.Errorf("no usable LLM provider: %w", err)
		}
	}

	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}

	resp, err := provider.GenerateText(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: s.temperature,
		MaxTokens:   maxTokens,
	}, "")
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", provider.Name(), err)
	}

	if resp.Text == "" {
		return "", fmt.Errorf("empty completion from %s", provider.Name())
	}

	log.Info().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("Generated completion")

	return resp.Text, nil
}
