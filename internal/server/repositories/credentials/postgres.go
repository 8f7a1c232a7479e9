package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/dbx"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

const (
	accessTokenConstraint  = "credentials_access_token_key"
	refreshTokenConstraint = "credentials_refresh_token_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create upserts on (account_id, device_uuid). created_at of a superseded
// credential is preserved.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	query := `
		INSERT INTO credentials (account_id, device_uuid, device, platform,
			access_token, access_token_expires_at, refresh_token, refresh_token_expires_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_id, device_uuid) DO UPDATE SET
			device = EXCLUDED.device,
			platform = EXCLUDED.platform,
			access_token = EXCLUDED.access_token,
			access_token_expires_at = EXCLUDED.access_token_expires_at,
			refresh_token = EXCLUDED.refresh_token,
			refresh_token_expires_at = EXCLUDED.refresh_token_expires_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.AccountID, c.DeviceUUID, c.Device, c.Platform,
		c.AccessToken, c.AccessTokenExpireDate, c.RefreshToken, c.RefreshTokenExpireDate,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return c, nil
}

const selectCredential = `
		SELECT id, account_id, device_uuid, device, platform,
			access_token, access_token_expires_at, refresh_token, refresh_token_expires_at,
			created_at, updated_at
		FROM credentials
	`

func (r *PostgresRepository) FindByDeviceUUID(ctx context.Context, deviceUUID string) (*models.Credential, error) {
	return r.findOne(ctx, selectCredential+`WHERE device_uuid = $1 ORDER BY updated_at DESC, created_at DESC, id DESC LIMIT 1`, deviceUUID)
}

func (r *PostgresRepository) FindByAccessToken(ctx context.Context, token string) (*models.Credential, error) {
	return r.findOne(ctx, selectCredential+`WHERE access_token = $1`, token)
}

func (r *PostgresRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Credential, error) {
	return r.findOne(ctx, selectCredential+`WHERE refresh_token = $1`, token)
}

func (r *PostgresRepository) UpdateTokens(ctx context.Context, oldRefreshToken string, c *models.Credential) (*models.Credential, error) {
	query := `
		UPDATE credentials SET
			access_token = $1,
			access_token_expires_at = $2,
			refresh_token = $3,
			refresh_token_expires_at = $4,
			updated_at = $5
		WHERE refresh_token = $6
		RETURNING id, account_id, device_uuid, device, platform, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.AccessToken, c.AccessTokenExpireDate, c.RefreshToken, c.RefreshTokenExpireDate,
		c.UpdatedAt, oldRefreshToken,
	).Scan(&c.ID, &c.AccountID, &c.DeviceUUID, &c.Device, &c.Platform, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, mapWriteError(err)
	}
	return c, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg string) (*models.Credential, error) {
	var c models.Credential
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.AccountID, &c.DeviceUUID, &c.Device, &c.Platform,
		&c.AccessToken, &c.AccessTokenExpireDate, &c.RefreshToken, &c.RefreshTokenExpireDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func mapWriteError(err error) error {
	if name, ok := dbx.UniqueViolation(err); ok {
		switch name {
		case accessTokenConstraint, refreshTokenConstraint:
			return common.ErrDuplicateToken
		}
	}
	return fmt.Errorf("db error: %w", err)
}
