// Package models defines the identity records persisted by the server.
package models

import "time"

// Account is an identity, possibly anonymous. Guests carry neither Email
// nor Password.
type Account struct {
	ID string
	// Email is unique across accounts when non-empty.
	Email string
	// Password is an opaque verifier blob (bcrypt hash), empty for guests.
	Password     []byte
	ActivateDate *time.Time
	IsGuest      bool
	Preferences  Preferences
	Mobile       *Mobile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Preferences holds user-selectable settings.
type Preferences struct {
	// Languages are canonical BCP-47 tags in order of preference.
	Languages []string `json:"languages" bson:"languages"`
}

// Mobile is an optional phone contact.
type Mobile struct {
	CountryCode string `json:"countryCode" bson:"countryCode"`
	Number      string `json:"number" bson:"number"`
}

// IsActivated reports whether the account completed an activation.
func (a Account) IsActivated() bool {
	return a.ActivateDate != nil
}
