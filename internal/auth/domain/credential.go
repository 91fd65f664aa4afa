package domain

import "time"

// Credential holds the OAuth2 token pair linking a user to a mail provider.
// At most one credential exists per (user, provider); it is mutated only by
// the token manager when a refresh rotates the tokens.
type Credential struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex:idx_user_provider;not null"`
	Provider     string    `json:"provider" gorm:"uniqueIndex:idx_user_provider;not null"` // "google"
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Expired reports whether the access token is expired or about to expire.
// The 5 minute buffer avoids handing out tokens that die mid-request.
func (c *Credential) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.Before(now.Add(5 * time.Minute))
}
