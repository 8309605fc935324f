// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/hustler3848/devbook/internal/app/store/oauthstate"
	"github.com/hustler3848/devbook/internal/app/system/indexes"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the stores rely on: the unique username
// and email indexes behind profile uniqueness, the unique (user, snippet)
// ledger indexes behind interaction idempotency, the list-query indexes, and
// the OAuth state TTL index.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.DevBookMongoDatabase); err != nil {
		logger.Error("index creation failed", zap.Error(err))
		return err
	}
	if err := oauthstate.New(deps.DevBookMongoDatabase).EnsureIndexes(ctx); err != nil {
		logger.Error("oauth state index creation failed", zap.Error(err))
		return err
	}
	logger.Info("database indexes ensured")
	return nil
}
