package usecase

import (
	"context"

	authdomain "crmsync-backend/internal/auth/domain"
	emaildomain "crmsync-backend/internal/email/domain"
	emaildto "crmsync-backend/internal/email/dto"
	"crmsync-backend/internal/email/repository"
)

// TokenManager hands out valid provider access tokens for a user and forces
// a refresh after an authorization failure
type TokenManager interface {
	ValidToken(ctx context.Context, userID string) (*authdomain.Credential, error)
	Refresh(ctx context.Context, userID string) (*authdomain.Credential, error)
}

// SyncUsecase defines the interface for mailbox synchronization
type SyncUsecase interface {
	// SyncUserEmails runs one user's sync cycle. Failures are captured in
	// the result rather than returned, so one user's error never aborts an
	// organization run.
	SyncUserEmails(ctx context.Context, userID, organizationID string) *emaildto.UserSyncResult
	// SyncOrganizationEmails fans the per-user sync out across every
	// member with a linked credential, in fixed-size batches
	SyncOrganizationEmails(ctx context.Context, organizationID string) *emaildto.OrgSyncResult
	GetSyncStats(userID, organizationID string) (*emaildto.SyncStats, error)
	ListEmails(organizationID string, opts repository.EmailListOptions) ([]*emaildomain.Email, int64, error)
	GetSettings(organizationID string) (*emaildomain.SyncSettings, error)
	UpdateSettings(organizationID, updatedBy string, req *emaildto.UpdateSettingsRequest) (*emaildomain.SyncSettings, error)
}
