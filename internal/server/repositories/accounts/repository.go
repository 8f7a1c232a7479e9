// Package accounts declares the account store contract and its PostgreSQL,
// MongoDB and in-memory implementations.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

// Repository persists Account records.
type Repository interface {
	// Create stores account and fills in its ID. A taken email yields
	// common.ErrDuplicateEmail.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// FindByEmail returns common.ErrorNotFound when no account has email.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// FindByID returns common.ErrorNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// Exists reports whether an account with email is stored.
	Exists(ctx context.Context, email string) (bool, error)
}
