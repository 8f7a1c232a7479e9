package grpc

import (
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/server/models"
)

type CreateAccountRequest struct {
	DeviceUUID string   `json:"deviceUuid"`
	Device     string   `json:"device"`
	Platform   string   `json:"platform"`
	Languages  []string `json:"languages"`
}

type CreateAccountResponse struct {
	AccountID  string     `json:"accountId"`
	IsGuest    bool       `json:"isGuest"`
	Languages  []string   `json:"languages"`
	Credential Credential `json:"credential"`
}

// Credential is the client view of a device credential.
type Credential struct {
	ID                     string    `json:"id"`
	DeviceUUID             string    `json:"deviceUuid"`
	AccessToken            string    `json:"accessToken"`
	AccessTokenExpireDate  time.Time `json:"accessTokenExpireDate"`
	RefreshToken           string    `json:"refreshToken"`
	RefreshTokenExpireDate time.Time `json:"refreshTokenExpireDate"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	Credential Credential `json:"credential"`
}

type VerifyAccessTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

type VerifyAccessTokenResponse struct {
	Valid bool `json:"valid"`
}

// RequestActivationRequest acts on the account owning the access token in
// the call metadata.
type RequestActivationRequest struct {
	Kind string `json:"kind"`
}

// RequestActivationResponse omits the verify token, which is delivered to
// the email or phone being confirmed.
type RequestActivationResponse struct {
	ActivationID     string    `json:"activationId"`
	Kind             string    `json:"kind"`
	VerifyExpireDate time.Time `json:"verifyExpireDate"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

func credentialMessage(c *models.Credential) Credential {
	return Credential{
		ID:                     c.ID,
		DeviceUUID:             c.DeviceUUID,
		AccessToken:            c.AccessToken,
		AccessTokenExpireDate:  c.AccessTokenExpireDate,
		RefreshToken:           c.RefreshToken,
		RefreshTokenExpireDate: c.RefreshTokenExpireDate,
	}
}
