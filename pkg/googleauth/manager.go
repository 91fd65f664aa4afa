package googleauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	authdomain "crmsync-backend/internal/auth/domain"
	"crmsync-backend/internal/auth/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const ProviderGoogle = "google"

var (
	// ErrNoCredential means the user has no linked Google account
	ErrNoCredential = errors.New("no google account linked")

	// ErrNoRefreshToken means the stored credential cannot be refreshed and
	// the user must re-authenticate
	ErrNoRefreshToken = errors.New("no refresh token available, please re-authenticate")
)

// Manager hands out valid access tokens per user, refreshing and persisting
// rotated tokens transparently
type Manager struct {
	config         *oauth2.Config
	credentialRepo repository.CredentialRepository
}

// NewManager creates a new token manager backed by the credential store
func NewManager(clientID, clientSecret, redirectURI string, credentialRepo repository.CredentialRepository) *Manager {
	return &Manager{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/gmail.readonly",
			},
		},
		credentialRepo: credentialRepo,
	}
}

// ExchangeCode trades an authorization code for a token pair. The caller
// identifies the user from the token before storing it with StoreToken.
func (m *Manager) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := m.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %v", err)
	}
	return token, nil
}

// StoreToken saves a token pair as the user's Google credential
func (m *Manager) StoreToken(userID string, token *oauth2.Token) (*authdomain.Credential, error) {
	cred := &authdomain.Credential{
		UserID:       userID,
		Provider:     ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if err := m.credentialRepo.Upsert(cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// ValidToken returns the user's credential, refreshing it first when the
// access token is expired or about to expire
func (m *Manager) ValidToken(ctx context.Context, userID string) (*authdomain.Credential, error) {
	cred, err := m.credentialRepo.GetByUser(userID, ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNoCredential
	}

	if !cred.Expired(time.Now()) {
		return cred, nil
	}

	return m.refresh(ctx, cred)
}

// Refresh forces one token refresh for the user and persists the result.
// Used by the mail client after a provider-reported authorization failure.
func (m *Manager) Refresh(ctx context.Context, userID string) (*authdomain.Credential, error) {
	cred, err := m.credentialRepo.GetByUser(userID, ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNoCredential
	}
	return m.refresh(ctx, cred)
}

func (m *Manager) refresh(ctx context.Context, cred *authdomain.Credential) (*authdomain.Credential, error) {
	if cred.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	source := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %v", err)
	}

	cred.AccessToken = token.AccessToken
	// Google may rotate the refresh token; keep the old one otherwise
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	cred.ExpiresAt = token.Expiry

	if err := m.credentialRepo.Upsert(cred); err != nil {
		log.Printf("[GoogleAuth] Failed to persist refreshed token for user %s: %v", cred.UserID, err)
	}
	return cred, nil
}
