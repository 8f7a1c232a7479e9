package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/dbx"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

const emailConstraint = "accounts_email_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	prefs, err := json.Marshal(account.Preferences)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	var mobile []byte
	if account.Mobile != nil {
		if mobile, err = json.Marshal(account.Mobile); err != nil {
			return nil, fmt.Errorf("encode mobile: %w", err)
		}
	}

	query := `
		INSERT INTO accounts (email, password, activate_date, is_guest, preferences, mobile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		nullString(account.Email), account.Password, nullTime(account),
		account.IsGuest, prefs, mobile, account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		if name, ok := dbx.UniqueViolation(err); ok && name == emailConstraint {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

const selectAccount = `
		SELECT id, email, password, activate_date, is_guest, preferences, mobile, created_at, updated_at
		FROM accounts
	`

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+`WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+`WHERE id = $1`, id)
}

func (r *PostgresRepository) Exists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	var (
		a        models.Account
		email    sql.NullString
		activate sql.NullTime
		prefs    []byte
		mobile   []byte
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &email, &a.Password, &activate, &a.IsGuest, &prefs, &mobile, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.Email = email.String
	if activate.Valid {
		t := activate.Time
		a.ActivateDate = &t
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &a.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	if len(mobile) > 0 {
		a.Mobile = &models.Mobile{}
		if err := json.Unmarshal(mobile, a.Mobile); err != nil {
			return nil, fmt.Errorf("decode mobile: %w", err)
		}
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(a *models.Account) sql.NullTime {
	if a.ActivateDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *a.ActivateDate, Valid: true}
}
