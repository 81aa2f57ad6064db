// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	accountstore "github.com/dalemusser/rentalhub/internal/app/store/accounts"
	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	orphanstore "github.com/dalemusser/rentalhub/internal/app/store/orphans"
	propertystore "github.com/dalemusser/rentalhub/internal/app/store/properties"
	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/cache"
	"github.com/dalemusser/rentalhub/internal/app/system/indexes"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB (required) and Redis (optional).
// A Redis that does not answer is logged and left disabled; the property
// list then always reads from Mongo.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetServerSelectionTimeout(10 * time.Second)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Services:      &Services{},
	}

	if appCfg.RedisAddr != "" {
		rc := cache.NewRedis(appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB, appCfg.RedisPrefix)
		rctx, rcancel := context.WithTimeout(ctx, timeouts.Ping())
		defer rcancel()
		if err := rc.Ping(rctx); err != nil {
			logger.Warn("redis unavailable, property cache disabled", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
			_ = rc.Close()
		} else {
			deps.Redis = rc
			logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
		}
	}

	return deps, nil
}

// EnsureSchema creates every collection's indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	return indexes.EnsureAll(ctx, logger,
		indexes.Set{Collection: "users", Ensurer: userstore.New(db)},
		indexes.Set{Collection: "properties", Ensurer: propertystore.New(db)},
		indexes.Set{Collection: "auth_accounts", Ensurer: accountstore.New(db)},
		indexes.Set{Collection: "audit_events", Ensurer: audit.New(db)},
		indexes.Set{Collection: "storage_orphans", Ensurer: orphanstore.New(db)},
	)
}
