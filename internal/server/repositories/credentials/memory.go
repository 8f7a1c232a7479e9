package credentials

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/google/uuid"
)

type deviceKey struct {
	accountID  string
	deviceUUID string
}

// MemoryRepository keeps credentials in process memory with the same
// uniqueness rules as the database backends.
type MemoryRepository struct {
	mu        sync.RWMutex
	byID      map[string]models.Credential
	byDevice  map[deviceKey]string
	byAccess  map[string]string
	byRefresh map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:      make(map[string]models.Credential),
		byDevice:  make(map[deviceKey]string),
		byAccess:  make(map[string]string),
		byRefresh: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, c *models.Credential) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := deviceKey{accountID: c.AccountID, deviceUUID: c.DeviceUUID}
	existingID, superseding := r.byDevice[key]

	if id, ok := r.byAccess[c.AccessToken]; ok && id != existingID {
		return nil, common.ErrDuplicateToken
	}
	if id, ok := r.byRefresh[c.RefreshToken]; ok && id != existingID {
		return nil, common.ErrDuplicateToken
	}

	stored := *c
	if superseding {
		old := r.byID[existingID]
		delete(r.byAccess, old.AccessToken)
		delete(r.byRefresh, old.RefreshToken)
		stored.ID = old.ID
		stored.CreatedAt = old.CreatedAt
	} else {
		stored.ID = uuid.NewString()
	}

	r.byID[stored.ID] = stored
	r.byDevice[key] = stored.ID
	r.byAccess[stored.AccessToken] = stored.ID
	r.byRefresh[stored.RefreshToken] = stored.ID

	out := stored
	return &out, nil
}

func (r *MemoryRepository) FindByDeviceUUID(_ context.Context, deviceUUID string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Credential
	for key, id := range r.byDevice {
		if key.deviceUUID != deviceUUID {
			continue
		}
		c := r.byID[id]
		if latest == nil || newer(c, *latest) {
			latest = &c
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	return latest, nil
}

func (r *MemoryRepository) FindByAccessToken(_ context.Context, token string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byAccess, token)
}

func (r *MemoryRepository) FindByRefreshToken(_ context.Context, token string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byRefresh, token)
}

func (r *MemoryRepository) UpdateTokens(_ context.Context, oldRefreshToken string, c *models.Credential) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byRefresh[oldRefreshToken]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if other, ok := r.byAccess[c.AccessToken]; ok && other != id {
		return nil, common.ErrDuplicateToken
	}
	if other, ok := r.byRefresh[c.RefreshToken]; ok && other != id {
		return nil, common.ErrDuplicateToken
	}

	stored := r.byID[id]
	delete(r.byAccess, stored.AccessToken)
	delete(r.byRefresh, stored.RefreshToken)

	stored.AccessToken = c.AccessToken
	stored.AccessTokenExpireDate = c.AccessTokenExpireDate
	stored.RefreshToken = c.RefreshToken
	stored.RefreshTokenExpireDate = c.RefreshTokenExpireDate
	stored.UpdatedAt = c.UpdatedAt

	r.byID[id] = stored
	r.byAccess[stored.AccessToken] = id
	r.byRefresh[stored.RefreshToken] = id

	out := stored
	return &out, nil
}

// newer orders credentials by UpdatedAt, then CreatedAt, then ID, all
// descending, matching the database backends.
func newer(a, b models.Credential) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Len returns the number of stored credentials.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryRepository) lookup(index map[string]string, token string) (*models.Credential, error) {
	id, ok := index[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := r.byID[id]
	return &c, nil
}
