package accounts

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It enforces the same
// email uniqueness as the database backends.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.Email != "" {
		if _, taken := r.byEmail[account.Email]; taken {
			return nil, common.ErrDuplicateEmail
		}
	}

	account.ID = uuid.NewString()
	r.byID[account.ID] = cloneAccount(*account)
	if account.Email != "" {
		r.byEmail[account.Email] = account.ID
	}
	return account, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := cloneAccount(r.byID[id])
	return &a, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a = cloneAccount(a)
	return &a, nil
}

func (r *MemoryRepository) Exists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

// Len returns the number of stored accounts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// cloneAccount copies the slices and pointers so callers cannot mutate
// stored state.
func cloneAccount(a models.Account) models.Account {
	a.Password = slices.Clone(a.Password)
	a.Preferences.Languages = slices.Clone(a.Preferences.Languages)
	if a.ActivateDate != nil {
		t := *a.ActivateDate
		a.ActivateDate = &t
	}
	if a.Mobile != nil {
		m := *a.Mobile
		a.Mobile = &m
	}
	return a
}
