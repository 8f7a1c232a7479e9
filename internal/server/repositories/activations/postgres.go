package activations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/idkeeper/internal/dbx"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Activation) (*models.Activation, error) {
	query := `
		INSERT INTO activations (account_id, kind, verify_token, verify_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		a.AccountID, string(a.Kind), a.VerifyToken, a.VerifyExpireDate, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Activation, error) {
	query := `
		SELECT id, account_id, kind, verify_token, verify_expires_at, created_at, updated_at
		FROM activations
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Activation, 0)
	for rows.Next() {
		var (
			a    models.Activation
			kind string
		)
		if err := rows.Scan(&a.ID, &a.AccountID, &kind, &a.VerifyToken, &a.VerifyExpireDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.Kind = models.ActivationKind(kind)
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}
