// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/hustler3848/devbook/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Apply configured database timeout overrides before any handler is
	// registered; zero values keep the tier's default.
	timeouts.Configure(timeouts.Config{
		Ping:   time.Duration(appCfg.DBTimeoutPing) * time.Second,
		Short:  time.Duration(appCfg.DBTimeoutShort) * time.Second,
		Medium: time.Duration(appCfg.DBTimeoutMedium) * time.Second,
		Long:   time.Duration(appCfg.DBTimeoutLong) * time.Second,
	})
	logger.Info("database timeouts configured",
		zap.Duration("ping", timeouts.Ping()),
		zap.Duration("short", timeouts.Short()),
		zap.Duration("medium", timeouts.Medium()),
		zap.Duration("long", timeouts.Long()))
	return nil
}
