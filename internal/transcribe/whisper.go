package transcribe

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "whisper-large-v3"
)

// Backend converts an audio file on disk to text.
type Backend interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
}

type audioAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperConfig selects an OpenAI-compatible transcription endpoint.
type WhisperConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// WhisperClient calls a Whisper-compatible /audio/transcriptions endpoint.
type WhisperClient struct {
	api   audioAPI
	model string
}

func NewWhisperClient(cfg WhisperConfig) (*WhisperClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("transcribe: api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return newWhisperClientWithAPI(openai.NewClientWithConfig(clientCfg), cfg.Model), nil
}

func newWhisperClientWithAPI(api audioAPI, model string) *WhisperClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &WhisperClient{api: api, model: model}
}

func (c *WhisperClient) TranscribeFile(ctx context.Context, path string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
