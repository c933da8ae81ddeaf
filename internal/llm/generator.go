package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGeneration matches every failure of a text generation call.
	ErrGeneration = errors.New("text generation failed")

	// ErrInvalidInput is returned before any model call when the input is unusable.
	ErrInvalidInput = errors.New("invalid input")
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorConfig fixes the model parameters used for every prompt.
type GeneratorConfig struct {
	Model       string
	System      []string
	MaxTokens   int32
	Temperature float32
}

// ModelGenerator adapts a Client to the single-prompt Generator contract.
type ModelGenerator struct {
	client Client
	cfg    GeneratorConfig
}

func NewModelGenerator(client Client, cfg GeneratorConfig) *ModelGenerator {
	if client == nil {
		panic("llm: generator requires a client")
	}
	return &ModelGenerator{client: client, cfg: cfg}
}

// Generate sends prompt as a single user turn. Provider failures and empty
// completions are reported as ErrGeneration.
func (g *ModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", ErrGeneration)
	}
	resp, err := g.client.Complete(ctx, Request{
		Model:       g.cfg.Model,
		System:      g.cfg.System,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("%w: model returned no text", ErrGeneration)
	}
	return resp.Text, nil
}
