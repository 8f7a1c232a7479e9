package models

import "time"

// Credential binds one device of an account to an access/refresh token
// pair. There is at most one Credential per (AccountID, DeviceUUID).
type Credential struct {
	ID                     string
	AccountID              string
	DeviceUUID             string
	Device                 string
	Platform               string
	AccessToken            string
	AccessTokenExpireDate  time.Time
	RefreshToken           string
	RefreshTokenExpireDate time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CredentialState is derived from the expiry timestamps and a point in time.
// Nothing stored changes as a credential ages.
type CredentialState int

const (
	CredentialValid CredentialState = iota
	CredentialAccessExpired
	CredentialFullyExpired
)

func (s CredentialState) String() string {
	switch s {
	case CredentialValid:
		return "valid"
	case CredentialAccessExpired:
		return "access_expired"
	case CredentialFullyExpired:
		return "fully_expired"
	default:
		return "unknown"
	}
}

// IsAccessTokenValid reports now < AccessTokenExpireDate.
func (c Credential) IsAccessTokenValid(now time.Time) bool {
	return now.Before(c.AccessTokenExpireDate)
}

// IsRefreshTokenValid reports now < RefreshTokenExpireDate.
func (c Credential) IsRefreshTokenValid(now time.Time) bool {
	return now.Before(c.RefreshTokenExpireDate)
}

func (c Credential) State(now time.Time) CredentialState {
	switch {
	case c.IsAccessTokenValid(now):
		return CredentialValid
	case c.IsRefreshTokenValid(now):
		return CredentialAccessExpired
	default:
		return CredentialFullyExpired
	}
}
