// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"io"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers and closes backend connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc := deps.Services; svc != nil {
		if svc.Sweeper != nil {
			svc.Sweeper.Stop()
		}
		if svc.LoginLimiter != nil {
			svc.LoginLimiter.Stop()
		}
		if svc.ContactLimiter != nil {
			svc.ContactLimiter.Stop()
		}
		if c, ok := svc.Objects.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("object storage close failed", zap.Error(err))
			}
		}
	}

	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
