package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Provider outcomes reported to a ProviderObserver.
const (
	ProviderAnswered = "answered"
	ProviderFailed   = "failed"
)

// NamedClient labels a provider for logs and metrics.
type NamedClient struct {
	Name   string
	Client Client
}

// ProviderObserver records which provider served or failed each completion.
type ProviderObserver interface {
	ObserveLLMProvider(provider, outcome string)
}

// FallbackClient tries providers in order until one answers.
type FallbackClient struct {
	chain    []NamedClient
	observer ProviderObserver
	logger   *logging.Logger
}

// NewFallbackClient builds the chain primary, then fallback. A fallback with
// a nil Client is skipped.
func NewFallbackClient(primary, fallback NamedClient, observer ProviderObserver, logger *logging.Logger) *FallbackClient {
	if primary.Client == nil {
		panic("llm: primary client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	chain := []NamedClient{primary}
	if fallback.Client != nil {
		chain = append(chain, fallback)
	}
	return &FallbackClient{chain: chain, observer: observer, logger: logger}
}

// Providers lists the chain's provider names in call order.
func (c *FallbackClient) Providers() []string {
	names := make([]string, len(c.chain))
	for i, p := range c.chain {
		names[i] = p.Name
	}
	return names
}

func (c *FallbackClient) Complete(ctx context.Context, req Request) (Response, error) {
	var errs []error
	for i, p := range c.chain {
		resp, err := p.Client.Complete(ctx, req)
		if err == nil {
			c.observe(p.Name, ProviderAnswered)
			if i > 0 {
				c.logger.Info("llm fallback answered", "provider", p.Name, "failed_before", len(errs))
			}
			return resp, nil
		}

		c.observe(p.Name, ProviderFailed)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Canceled or expired: the rest of the chain is skipped.
			return Response{}, errors.Join(append(errs, ctxErr)...)
		}
		if i+1 < len(c.chain) {
			c.logger.Warn("llm provider failed, trying next",
				"provider", p.Name,
				"next", c.chain[i+1].Name,
				"error", err,
			)
		}
	}
	if len(c.chain) > 1 {
		c.logger.Error("every llm provider failed", "providers", c.Providers(), "error", errors.Join(errs...))
	}
	return Response{}, errors.Join(errs...)
}

func (c *FallbackClient) observe(provider, outcome string) {
	if c.observer != nil {
		c.observer.ObserveLLMProvider(provider, outcome)
	}
}
