package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
)

// ActivationKind names the contact channel being confirmed.
type ActivationKind string

const (
	ActivationEmail ActivationKind = "email"
	ActivationPhone ActivationKind = "phone"
)

// ParseActivationKind accepts "email" or "phone".
func ParseActivationKind(s string) (ActivationKind, error) {
	switch k := ActivationKind(s); k {
	case ActivationEmail, ActivationPhone:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown activation kind %q", common.ErrInvalidArgument, s)
	}
}

// Activation is a time-boxed token proving control of an email or phone.
type Activation struct {
	ID               string
	AccountID        string
	Kind             ActivationKind
	VerifyToken      string
	VerifyExpireDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
