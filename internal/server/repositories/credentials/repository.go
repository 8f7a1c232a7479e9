// Package credentials declares the store contract for per-device token pairs.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

// Repository persists Credentials. Lookups return common.ErrorNotFound when
// nothing matches.
type Repository interface {
	// Create stores c, replacing the tokens of an existing credential for the
	// same (AccountID, DeviceUUID). It returns common.ErrDuplicateToken when
	// either token is already held by another credential.
	Create(ctx context.Context, c *models.Credential) (*models.Credential, error)

	// FindByDeviceUUID returns the most recently updated credential for the
	// device.
	FindByDeviceUUID(ctx context.Context, deviceUUID string) (*models.Credential, error)
	FindByAccessToken(ctx context.Context, token string) (*models.Credential, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.Credential, error)

	// UpdateTokens rotates the token pair of the credential currently holding
	// oldRefreshToken. The fields of c other than tokens, expiries and
	// UpdatedAt are filled from the stored record.
	UpdateTokens(ctx context.Context, oldRefreshToken string, c *models.Credential) (*models.Credential, error)
}
