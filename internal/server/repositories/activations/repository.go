// Package activations declares the store contract for activation records.
package activations

import (
	"context"

	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

// Repository persists Activations. Every request produces its own record.
type Repository interface {
	Create(ctx context.Context, a *models.Activation) (*models.Activation, error)
	// ListByAccount returns the account's activations, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]models.Activation, error)
}
