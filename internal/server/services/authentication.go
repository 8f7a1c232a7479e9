// Package services contains the identity server business logic: guest
// account creation, per-device credential issuance and refresh, token
// validation, lookups and activation requests.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/logging"
	"github.com/dmitrijs2005/idkeeper/internal/server/auth"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/repomanager"
)

// maxTokenAttempts bounds how many fresh token pairs are tried when the
// store reports a collision.
const maxTokenAttempts = 3

// TokenSet is a freshly generated access/refresh pair with expiries.
type TokenSet struct {
	AccessToken            string
	AccessTokenExpireDate  time.Time
	RefreshToken           string
	RefreshTokenExpireDate time.Time
}

// AuthenticationService orchestrates the account, credential and activation
// stores. It holds no mutable state and is safe for concurrent use.
type AuthenticationService struct {
	repomanager repomanager.RepositoryManager
	tokens      auth.TokenConfig
	activations *ActivationIssuer
	passwords   auth.PasswordHasher
	logger      logging.Logger

	// newToken is swapped in tests to force collisions.
	newToken func() (string, error)
}

func NewAuthenticationService(
	m repomanager.RepositoryManager,
	tokens auth.TokenConfig,
	secretKey []byte,
	passwords auth.PasswordHasher,
	logger logging.Logger,
) *AuthenticationService {
	return &AuthenticationService{
		repomanager: m,
		tokens:      tokens,
		activations: NewActivationIssuer(m.Activations(), secretKey, tokens.ActivationTTLSeconds),
		passwords:   passwords,
		logger:      logger.With("module", "authentication"),
		newToken:    auth.GenerateToken,
	}
}

// GenerateTokens mints an access/refresh pair anchored at now. Nothing is
// persisted.
func (s *AuthenticationService) GenerateTokens(now time.Time) (*TokenSet, error) {
	access, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	refresh, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	return &TokenSet{
		AccessToken:            access,
		AccessTokenExpireDate:  auth.ExpiryFrom(now, s.tokens.AccessTokenTTLSeconds),
		RefreshToken:           refresh,
		RefreshTokenExpireDate: auth.ExpiryFrom(now, s.tokens.RefreshTokenTTLSeconds),
	}, nil
}

// CreateAccount registers a guest account and its first credential for the
// device. If the credential cannot be stored the account is still returned,
// together with an error matching common.ErrInconsistentState; IssueCredential
// can then be retried for that account.
func (s *AuthenticationService) CreateAccount(
	ctx context.Context,
	deviceUUID, device, platform string,
	languages []string,
	now time.Time,
) (*models.Account, *models.Credential, error) {
	langs, err := auth.NormalizeLanguages(languages)
	if err != nil {
		return nil, nil, err
	}

	account := &models.Account{
		IsGuest:     true,
		Preferences: models.Preferences{Languages: langs},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	account, err = s.repomanager.Accounts().Create(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating account: %w", err)
	}

	cred, err := s.IssueCredential(ctx, account.ID, deviceUUID, device, platform, now)
	if err != nil {
		s.logger.Error(ctx, "account left without credential",
			"account_id", account.ID, "device_uuid", deviceUUID, "error", err)
		return account, nil, fmt.Errorf("%w: account %s: %w", common.ErrInconsistentState, account.ID, err)
	}

	s.logger.Info(ctx, "guest account created",
		"account_id", account.ID, "device_uuid", deviceUUID, "platform", platform)
	return account, cred, nil
}

// IssueCredential stores a new token pair for (accountID, deviceUUID),
// superseding any credential the device already had for that account.
// Token collisions are retried with fresh tokens.
func (s *AuthenticationService) IssueCredential(
	ctx context.Context,
	accountID, deviceUUID, device, platform string,
	now time.Time,
) (*models.Credential, error) {
	var lastErr error
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		tokens, err := s.GenerateTokens(now)
		if err != nil {
			return nil, err
		}

		cred, err := s.repomanager.Credentials().Create(ctx, &models.Credential{
			AccountID:              accountID,
			DeviceUUID:             deviceUUID,
			Device:                 device,
			Platform:               platform,
			AccessToken:            tokens.AccessToken,
			AccessTokenExpireDate:  tokens.AccessTokenExpireDate,
			RefreshToken:           tokens.RefreshToken,
			RefreshTokenExpireDate: tokens.RefreshTokenExpireDate,
			CreatedAt:              now,
			UpdatedAt:              now,
		})
		if err == nil {
			return cred, nil
		}
		if !errors.Is(err, common.ErrDuplicateToken) {
			return nil, fmt.Errorf("error creating credential: %w", err)
		}

		lastErr = err
		s.logger.Warn(ctx, "token collision, regenerating",
			"account_id", accountID, "device_uuid", deviceUUID, "attempt", attempt)
	}
	return nil, fmt.Errorf("error creating credential after %d attempts: %w", maxTokenAttempts, lastErr)
}

// RefreshCredential rotates both tokens of the credential holding
// refreshToken. Unknown tokens yield common.ErrInvalidToken and expired
// ones common.ErrRefreshTokenExpired.
func (s *AuthenticationService) RefreshCredential(ctx context.Context, refreshToken string, now time.Time) (*models.Credential, error) {
	current, found, err := s.GetCredentialFromRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrInvalidToken
	}
	if !current.IsRefreshTokenValid(now) {
		return nil, common.ErrRefreshTokenExpired
	}

	var lastErr error
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		tokens, err := s.GenerateTokens(now)
		if err != nil {
			return nil, err
		}

		cred, err := s.repomanager.Credentials().UpdateTokens(ctx, refreshToken, &models.Credential{
			AccessToken:            tokens.AccessToken,
			AccessTokenExpireDate:  tokens.AccessTokenExpireDate,
			RefreshToken:           tokens.RefreshToken,
			RefreshTokenExpireDate: tokens.RefreshTokenExpireDate,
			UpdatedAt:              now,
		})
		switch {
		case err == nil:
			s.logger.Debug(ctx, "credential refreshed", "credential_id", cred.ID)
			return cred, nil
		case errors.Is(err, common.ErrorNotFound):
			// rotated by a concurrent refresh
			return nil, common.ErrInvalidToken
		case errors.Is(err, common.ErrDuplicateToken):
			lastErr = err
		default:
			return nil, fmt.Errorf("error refreshing credential: %w", err)
		}
	}
	return nil, fmt.Errorf("error refreshing credential after %d attempts: %w", maxTokenAttempts, lastErr)
}

// VerifyAccessToken reports whether token belongs to a credential whose
// access token has not expired at now. Unknown tokens are simply invalid.
func (s *AuthenticationService) VerifyAccessToken(ctx context.Context, token string, now time.Time) (bool, error) {
	cred, found, err := s.GetCredentialFromAccessToken(ctx, token)
	if err != nil || !found {
		return false, err
	}
	return cred.IsAccessTokenValid(now), nil
}

func (s *AuthenticationService) GetCredentialFromDeviceUUID(ctx context.Context, deviceUUID string) (*models.Credential, bool, error) {
	return found(s.repomanager.Credentials().FindByDeviceUUID(ctx, deviceUUID))
}

func (s *AuthenticationService) GetCredentialFromAccessToken(ctx context.Context, token string) (*models.Credential, bool, error) {
	return found(s.repomanager.Credentials().FindByAccessToken(ctx, token))
}

func (s *AuthenticationService) GetCredentialFromRefreshToken(ctx context.Context, token string) (*models.Credential, bool, error) {
	return found(s.repomanager.Credentials().FindByRefreshToken(ctx, token))
}

func (s *AuthenticationService) GetAccountFromEmail(ctx context.Context, email string) (*models.Account, bool, error) {
	return found(s.repomanager.Accounts().FindByEmail(ctx, email))
}

// RegisterAccount stores a non-guest account with a hashed password.
// A taken email yields common.ErrDuplicateEmail.
func (s *AuthenticationService) RegisterAccount(
	ctx context.Context,
	email, password string,
	languages []string,
	now time.Time,
) (*models.Account, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidArgument)
	}
	langs, err := auth.NormalizeLanguages(languages)
	if err != nil {
		return nil, err
	}

	exists, err := s.repomanager.Accounts().Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateEmail
	}

	blob, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.repomanager.Accounts().Create(ctx, &models.Account{
		Email:       email,
		Password:    blob,
		Preferences: models.Preferences{Languages: langs},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// VerifyPassword checks plain against the account's stored blob. Guests
// never verify.
func (s *AuthenticationService) VerifyPassword(account *models.Account, plain string) bool {
	if account == nil || account.IsGuest {
		return false
	}
	return s.passwords.Verify(plain, account.Password)
}

// RequestActivation issues an email or phone activation for an existing
// account.
func (s *AuthenticationService) RequestActivation(
	ctx context.Context,
	accountID string,
	kind models.ActivationKind,
	now time.Time,
) (*models.Activation, error) {
	if _, err := s.repomanager.Accounts().FindByID(ctx, accountID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: account %s not found", common.ErrInvalidArgument, accountID)
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	a, err := s.activations.Issue(ctx, accountID, kind, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "activation issued", "account_id", accountID, "kind", string(kind))
	return a, nil
}

// Ping reports whether the backing storage is reachable.
func (s *AuthenticationService) Ping(ctx context.Context) error {
	if err := s.repomanager.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping: %w", err)
	}
	return nil
}

// found turns a repository not-found error into an explicit absent result.
func found[T any](v *T, err error) (*T, bool, error) {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}
