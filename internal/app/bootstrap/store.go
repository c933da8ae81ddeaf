package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/mediscribe-api/internal/appointments"
	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
	"github.com/wolfman30/mediscribe-api/internal/conversations"
	"github.com/wolfman30/mediscribe-api/internal/doctors"
	"github.com/wolfman30/mediscribe-api/internal/patients"
	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// CollectionKeys maps each collection to its identity column.
func CollectionKeys() map[string]string {
	return map[string]string{
		doctors.Collection:       doctors.IDField,
		patients.Collection:      patients.IDField,
		appointments.Collection:  appointments.IDField,
		conversations.Collection: conversations.IDField,
	}
}

// BuildStore selects the record store backend and wraps it with metrics and
// tracing. The returned closer releases backend resources.
func BuildStore(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, observer store.Observer, logger *logging.Logger) (store.Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		backend store.Store
		closer  = func() {}
	)
	switch strings.ToLower(strings.TrimSpace(cfg.StoreBackend)) {
	case appconfig.StorePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres store")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		backend = store.NewPostgresStore(pool)
		closer = pool.Close
	case appconfig.StoreDynamo:
		backend = store.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTablePrefix, CollectionKeys())
	case appconfig.StoreMemory, "":
		logger.Warn("using in-memory record store; data is lost on restart")
		backend = store.NewMemoryStore()
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown store backend %q", cfg.StoreBackend)
	}

	logger.Info("record store ready", "backend", cfg.StoreBackend)
	return store.NewInstrumentedStore(backend, observer, logger), closer, nil
}
