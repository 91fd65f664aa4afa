package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "crmsync-backend/internal/auth/repository"
	emaildomain "crmsync-backend/internal/email/domain"
	emaildto "crmsync-backend/internal/email/dto"
	"crmsync-backend/internal/email/repository"
	"crmsync-backend/pkg/googleauth"
)

type syncUsecase struct {
	provider       emaildomain.MailProvider
	tokens         TokenManager
	userRepo       authrepo.UserRepository
	credentialRepo authrepo.CredentialRepository
	orgRepo        authrepo.OrganizationRepository
	emailRepo      repository.EmailRepository
	checkpointRepo repository.CheckpointRepository
	settingsRepo   repository.SettingsRepository
	batchSize      int
}

// NewSyncUsecase creates a new instance of syncUsecase. batchSize caps how
// many users sync concurrently during an organization run.
func NewSyncUsecase(
	provider emaildomain.MailProvider,
	tokens TokenManager,
	userRepo authrepo.UserRepository,
	credentialRepo authrepo.CredentialRepository,
	orgRepo authrepo.OrganizationRepository,
	emailRepo repository.EmailRepository,
	checkpointRepo repository.CheckpointRepository,
	settingsRepo repository.SettingsRepository,
	batchSize int,
) SyncUsecase {
	return &syncUsecase{
		provider:       provider,
		tokens:         tokens,
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		orgRepo:        orgRepo,
		emailRepo:      emailRepo,
		checkpointRepo: checkpointRepo,
		settingsRepo:   settingsRepo,
		batchSize:      batchSize,
	}
}

// SyncUserEmails runs one user's sync cycle and reports the outcome. Errors
// are folded into the result so the caller can aggregate across users.
func (u *syncUsecase) SyncUserEmails(ctx context.Context, userID, organizationID string) *emaildto.UserSyncResult {
	result := &emaildto.UserSyncResult{
		UserID:    userID,
		UserName:  "Unknown",
		UserEmail: "Unknown",
	}

	user, err := u.userRepo.FindByID(userID)
	if err == nil && user != nil {
		result.UserName = user.Name
		result.UserEmail = user.Email
	}

	cred, err := u.credentialRepo.GetByUser(userID, googleauth.ProviderGoogle)
	if err != nil {
		result.Error = fmt.Sprintf("unable to load credential: %v", err)
		return result
	}
	if cred == nil {
		result.Error = "no linked mail account"
		return result
	}

	token, err := u.tokens.ValidToken(ctx, userID)
	if err != nil {
		result.Error = fmt.Sprintf("unable to obtain access token: %v", err)
		return result
	}

	newEmails, totalEmails, err := u.syncEmails(ctx, token.AccessToken, userID, organizationID)
	if err != nil {
		log.Printf("[Sync] Sync failed for user %s: %v", userID, err)
		result.Error = err.Error()
		return result
	}

	log.Printf("[Sync] User %s synced: %d new, %d total", userID, newEmails, totalEmails)
	result.Success = true
	result.NewEmails = newEmails
	result.TotalEmails = totalEmails
	return result
}

func (u *syncUsecase) syncEmails(ctx context.Context, accessToken, userID, organizationID string) (int, int64, error) {
	settings, err := u.settingsRepo.Get(organizationID)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to load sync settings: %v", err)
	}
	if settings == nil {
		settings = emaildomain.DefaultSyncSettings(organizationID)
	}

	// The previous checkpoint is read before claiming the syncing state so
	// the incremental window reflects the last completed run
	checkpoint, err := u.checkpointRepo.Get(userID)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to load sync checkpoint: %v", err)
	}

	started, err := u.checkpointRepo.TryBeginSync(userID)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to claim sync checkpoint: %v", err)
	}
	if !started {
		return 0, 0, emaildomain.ErrSyncInProgress
	}

	query := buildQuery(settings, checkpoint)
	client := newMailClient(u.provider, u.tokens, userID, accessToken)

	messageIDs, err := client.ListMessageIDs(ctx, query, settings.MaxEmailsPerSync)
	if err != nil {
		_ = u.checkpointRepo.Fail(userID, err.Error())
		return 0, 0, fmt.Errorf("unable to list messages: %v", err)
	}

	newEmails := 0
	for _, messageID := range messageIDs {
		raw, err := client.GetMessage(ctx, messageID)
		if err != nil {
			log.Printf("[Sync] Skipping message %s for user %s: %v", messageID, userID, err)
			continue
		}

		email := normalizeMessage(raw, userID, organizationID)
		isNew, err := u.emailRepo.UpsertByMessageID(email)
		if err != nil {
			log.Printf("[Sync] Failed to store message %s for user %s: %v", messageID, userID, err)
			continue
		}
		if isNew {
			newEmails++
		}
	}

	totalEmails, err := u.emailRepo.CountByUser(userID)
	if err != nil {
		_ = u.checkpointRepo.Fail(userID, err.Error())
		return 0, 0, fmt.Errorf("unable to count stored emails: %v", err)
	}

	if err := u.checkpointRepo.Complete(userID, time.Now(), totalEmails); err != nil {
		// The checkpoint must leave the syncing state even when the
		// completion write fails, or every future sync stays rejected
		_ = u.checkpointRepo.Fail(userID, err.Error())
		return 0, 0, fmt.Errorf("unable to record sync completion: %v", err)
	}
	return newEmails, totalEmails, nil
}

// buildQuery derives the provider search window. Incremental sync narrows it
// to the last completed run; otherwise the configured lookback applies.
func buildQuery(settings *emaildomain.SyncSettings, checkpoint *emaildomain.SyncCheckpoint) string {
	since := time.Now().AddDate(0, 0, -settings.SyncFromDays)
	if settings.UseIncrementalSync && checkpoint != nil && checkpoint.LastSyncAt != nil {
		since = *checkpoint.LastSyncAt
	}
	return fmt.Sprintf("after:%s", since.Format("2006/01/02"))
}

// GetSyncStats returns the per-user sync status summary
func (u *syncUsecase) GetSyncStats(userID, organizationID string) (*emaildto.SyncStats, error) {
	totalEmails, err := u.emailRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("unable to count stored emails: %v", err)
	}

	stats := &emaildto.SyncStats{
		TotalEmails: totalEmails,
		SyncStatus:  emaildomain.SyncStatusIdle,
	}

	checkpoint, err := u.checkpointRepo.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("unable to load sync checkpoint: %v", err)
	}
	if checkpoint != nil {
		stats.SyncStatus = checkpoint.SyncStatus
		stats.LastSyncAt = checkpoint.LastSyncAt
		stats.LastError = checkpoint.LastError
	}
	return stats, nil
}

// ListEmails returns one page of the organization's stored emails
func (u *syncUsecase) ListEmails(organizationID string, opts repository.EmailListOptions) ([]*emaildomain.Email, int64, error) {
	return u.emailRepo.ListByOrganization(organizationID, opts)
}

// GetSettings returns the organization's sync settings, creating the
// defaults on first access
func (u *syncUsecase) GetSettings(organizationID string) (*emaildomain.SyncSettings, error) {
	return u.settingsRepo.GetOrCreate(organizationID)
}

// UpdateSettings applies a settings change and records who made it
func (u *syncUsecase) UpdateSettings(organizationID, updatedBy string, req *emaildto.UpdateSettingsRequest) (*emaildomain.SyncSettings, error) {
	settings, err := u.settingsRepo.GetOrCreate(organizationID)
	if err != nil {
		return nil, err
	}

	settings.MaxEmailsPerSync = req.MaxEmailsPerSync
	settings.SyncFromDays = req.SyncFromDays
	settings.UseIncrementalSync = req.UseIncrementalSync
	settings.UpdatedBy = updatedBy

	if err := u.settingsRepo.Update(settings); err != nil {
		return nil, fmt.Errorf("unable to update sync settings: %v", err)
	}
	return settings, nil
}
