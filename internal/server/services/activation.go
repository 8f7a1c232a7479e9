package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/server/auth"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/activations"
)

// ActivationIssuer creates activation records carrying a signed verify
// token. Completing verification is someone else's job.
type ActivationIssuer struct {
	repo       activations.Repository
	secretKey  []byte
	ttlSeconds int64
}

func NewActivationIssuer(repo activations.Repository, secretKey []byte, ttlSeconds int64) *ActivationIssuer {
	return &ActivationIssuer{repo: repo, secretKey: secretKey, ttlSeconds: ttlSeconds}
}

// Issue persists a new Activation for accountID expiring at now + ttl. Every
// call creates its own record.
func (i *ActivationIssuer) Issue(ctx context.Context, accountID string, kind models.ActivationKind, now time.Time) (*models.Activation, error) {
	if _, err := models.ParseActivationKind(string(kind)); err != nil {
		return nil, err
	}

	expires := auth.ExpiryFrom(now, i.ttlSeconds)
	token, err := auth.GenerateVerifyToken(accountID, expires, i.secretKey)
	if err != nil {
		return nil, err
	}

	a := &models.Activation{
		AccountID:        accountID,
		Kind:             kind,
		VerifyToken:      token,
		VerifyExpireDate: expires,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	a, err = i.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("error creating activation: %w", err)
	}
	return a, nil
}
