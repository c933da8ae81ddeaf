package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
	"github.com/wolfman30/mediscribe-api/internal/search"
	"github.com/wolfman30/mediscribe-api/internal/transcribe"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// BuildSearcher returns the DuckDuckGo client, cached in Redis when a client
// is available.
func BuildSearcher(cfg *appconfig.Config, redisClient *redis.Client, observer search.Observer, logger *logging.Logger) search.Searcher {
	if logger == nil {
		logger = logging.Default()
	}
	var searcher search.Searcher = search.NewDuckDuckGoClient(search.DuckDuckGoConfig{
		BaseURL:    cfg.SearchBaseURL,
		Timeout:    cfg.SearchTimeout,
		MaxResults: cfg.SearchMaxResults,
		Observer:   observer,
		Logger:     logger,
	})
	if redisClient == nil {
		return searcher
	}
	logger.Info("search cache enabled", "ttl", cfg.SearchCacheTTL.String())
	return search.NewCachedSearcher(searcher, redisClient, cfg.SearchCacheTTL, observer, logger)
}

var errTranscriptionNotConfigured = errors.New("transcribe: no api key configured")

type unconfiguredBackend struct{}

func (unconfiguredBackend) TranscribeFile(context.Context, string) (string, error) {
	return "", errTranscriptionNotConfigured
}

// BuildTranscriber wires the Whisper client and the optional S3 archive.
func BuildTranscriber(cfg *appconfig.Config, awsCfg aws.Config, observer transcribe.Observer, logger *logging.Logger) (*transcribe.Service, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var backend transcribe.Backend = unconfiguredBackend{}
	if strings.TrimSpace(cfg.TranscriptionAPIKey) == "" {
		logger.Warn("no transcription api key configured; /api/transcribe will fail")
	} else {
		client, err := transcribe.NewWhisperClient(transcribe.WhisperConfig{
			APIKey:  cfg.TranscriptionAPIKey,
			BaseURL: cfg.TranscriptionBaseURL,
			Model:   cfg.TranscriptionModel,
		})
		if err != nil {
			return nil, err
		}
		backend = client
	}

	opts := transcribe.Options{
		MaxBytes: cfg.MaxAudioBytes,
		Observer: observer,
		Logger:   logger,
	}
	if bucket := strings.TrimSpace(cfg.AudioArchiveBucket); bucket != "" {
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		opts.Archive = transcribe.NewS3Archive(client, bucket)
		logger.Info("audio archive enabled", "bucket", bucket)
	}
	return transcribe.NewService(backend, opts), nil
}
