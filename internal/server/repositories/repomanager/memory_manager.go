package repomanager

import (
	"context"

	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/activations"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/credentials"
)

// MemoryRepositoryManager keeps everything in process memory. Data does not
// survive a restart.
type MemoryRepositoryManager struct {
	accounts    *accounts.MemoryRepository
	credentials *credentials.MemoryRepository
	activations *activations.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts:    accounts.NewMemoryRepository(),
		credentials: credentials.NewMemoryRepository(),
		activations: activations.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository       { return m.accounts }
func (m *MemoryRepositoryManager) Credentials() credentials.Repository { return m.credentials }
func (m *MemoryRepositoryManager) Activations() activations.Repository { return m.activations }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close(context.Context) error         { return nil }
