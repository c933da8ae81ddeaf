package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreDynamo   = "dynamodb"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreBackend      string
	DatabaseURL       string
	DynamoTablePrefix string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Text generation
	LLMProvider         string
	LLMFallbackProvider string
	BedrockModelID      string
	GeminiAPIKey        string
	GeminiModelID       string
	LLMMaxTokens        int
	LLMTemperature      float64

	// Web search and its cache
	SearchBaseURL    string
	SearchTimeout    time.Duration
	SearchMaxResults int
	SearchCacheTTL   time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisTLS         bool
	RedisDB          int

	// Speech to text
	TranscriptionAPIKey  string
	TranscriptionBaseURL string
	TranscriptionModel   string
	MaxAudioBytes        int64
	AudioArchiveBucket   string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	databaseURL := getEnv("DATABASE_URL", "")
	defaultBackend := StoreMemory
	if databaseURL != "" {
		defaultBackend = StorePostgres
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreBackend:      strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", defaultBackend))),
		DatabaseURL:       databaseURL,
		DynamoTablePrefix: getEnv("DYNAMO_TABLE_PREFIX", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		LLMProvider:         strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "bedrock"))),
		LLMFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK_PROVIDER", ""))),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:       getEnv("GEMINI_MODEL_ID", ""),
		LLMMaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 1024),
		LLMTemperature:      getEnvAsFloat("LLM_TEMPERATURE", 0.2),

		SearchBaseURL:    getEnv("SEARCH_BASE_URL", ""),
		SearchTimeout:    getEnvAsDuration("SEARCH_TIMEOUT", 10*time.Second),
		SearchMaxResults: getEnvAsInt("SEARCH_MAX_RESULTS", 5),
		SearchCacheTTL:   getEnvAsDuration("SEARCH_CACHE_TTL", 6*time.Hour),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),

		TranscriptionAPIKey:  getEnv("TRANSCRIPTION_API_KEY", getEnv("GROQ_API_KEY", "")),
		TranscriptionBaseURL: getEnv("TRANSCRIPTION_BASE_URL", ""),
		TranscriptionModel:   getEnv("TRANSCRIPTION_MODEL", ""),
		MaxAudioBytes:        int64(getEnvAsInt("MAX_AUDIO_BYTES", 25<<20)),
		AudioArchiveBucket:   getEnv("AUDIO_ARCHIVE_BUCKET", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
