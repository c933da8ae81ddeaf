package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
	"github.com/wolfman30/mediscribe-api/internal/llm"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const (
	providerBedrock = "bedrock"
	providerGemini  = "gemini"
)

var errLLMNotConfigured = errors.New("llm: no provider configured")

// unconfiguredClient keeps the API serving when no provider credentials are
// present. Generation endpoints answer 500 and prerequisites degrade.
type unconfiguredClient struct{}

func (unconfiguredClient) Complete(context.Context, llm.Request) (llm.Response, error) {
	return llm.Response{}, errLLMNotConfigured
}

// BuildLLMClient wires the primary provider and, when configured, a fallback.
// Every configured chain reports provider outcomes to observer.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, observer llm.ProviderObserver, logger *logging.Logger) (llm.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	primary, err := buildProvider(ctx, cfg.LLMProvider, cfg, awsCfg)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		logger.Warn("no LLM provider configured; generation endpoints will fail", "provider", cfg.LLMProvider)
		return unconfiguredClient{}, nil
	}

	var fallback llm.Client
	fallbackName := strings.TrimSpace(cfg.LLMFallbackProvider)
	if fallbackName != "" && fallbackName != cfg.LLMProvider {
		fallback, err = buildProvider(ctx, fallbackName, cfg, awsCfg)
		if err != nil {
			return nil, err
		}
		if fallback == nil {
			logger.Warn("llm fallback provider not configured; running without fallback", "fallback", fallbackName)
		}
	}

	client := llm.NewFallbackClient(
		llm.NamedClient{Name: cfg.LLMProvider, Client: primary},
		llm.NamedClient{Name: fallbackName, Client: fallback},
		observer, logger,
	)
	logger.Info("llm client ready", "providers", client.Providers())
	return client, nil
}

// buildProvider returns nil, nil when the provider lacks credentials.
func buildProvider(ctx context.Context, name string, cfg *appconfig.Config, awsCfg aws.Config) (llm.Client, error) {
	switch name {
	case providerBedrock:
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, nil
		}
		return llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg)), nil
	case providerGemini:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, nil
		}
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown llm provider %q", name)
	}
}

// GeneratorConfig carries the per-request model settings. Gemini ignores
// the model id, so the Bedrock id is always sent.
func GeneratorConfig(cfg *appconfig.Config) llm.GeneratorConfig {
	return llm.GeneratorConfig{
		Model:       cfg.BedrockModelID,
		MaxTokens:   int32(cfg.LLMMaxTokens),
		Temperature: float32(cfg.LLMTemperature),
	}
}
