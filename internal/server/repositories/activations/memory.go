package activations

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Activation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, a *models.Activation) (*models.Activation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.NewString()
	r.items = append(r.items, *a)
	return a, nil
}

func (r *MemoryRepository) ListByAccount(_ context.Context, accountID string) ([]models.Activation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Activation, 0)
	for _, a := range r.items {
		if a.AccountID == accountID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
