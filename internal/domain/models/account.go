// internal/domain/models/account.go
package models

import "time"

// Account is an identity-provider record: credentials plus custom claims.
// It is never serialized to API clients directly; see identity.AccountInfo.
type Account struct {
	UID              string         `bson:"_id"`
	Email            string         `bson:"email"`
	PasswordHash     []byte         `bson:"password_hash"`
	DisplayName      string         `bson:"display_name,omitempty"`
	Disabled         bool           `bson:"disabled"`
	CustomClaims     map[string]any `bson:"custom_claims,omitempty"`
	TokensValidAfter time.Time      `bson:"tokens_valid_after"`
	CreatedAt        time.Time      `bson:"created_at"`
	LastSignInAt     *time.Time     `bson:"last_sign_in_at,omitempty"`
}

// IsAdmin reports whether the admin custom claim is set to true.
func (a Account) IsAdmin() bool {
	v, ok := a.CustomClaims["admin"].(bool)
	return ok && v
}
