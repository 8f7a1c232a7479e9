// Package repomanager selects a storage backend and vends the identity
// repositories bound to it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/idkeeper/internal/server/config"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/activations"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/credentials"
)

type RepositoryManager interface {
	// RunMigrations brings the backend schema or indexes up to date.
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Credentials() credentials.Repository
	Activations() activations.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the backend named by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.StorageMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StorageMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
