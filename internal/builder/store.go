package builder

import (
	"context"
	"fmt"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/uploadstore"
	"go.uber.org/zap"
)

func setupUploadStore(ctx context.Context, cfg config.UploadStoreConfig, logger *zap.Logger) (uploadstore.Store, error) {
	logger.Info("Opening upload store", zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.StoreMemory:
		return uploadstore.NewMemoryStore(), nil
	case config.StoreSQLite:
		return uploadstore.OpenSQLite(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		return uploadstore.OpenPostgres(ctx, cfg.PostgresURL)
	case config.StoreRedis:
		return uploadstore.NewRedisStore(ctx, uploadstore.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown upload store driver %q", cfg.Driver)
	}
}
