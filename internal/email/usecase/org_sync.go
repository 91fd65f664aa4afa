package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	authdomain "crmsync-backend/internal/auth/domain"
	emaildto "crmsync-backend/internal/email/dto"
	"crmsync-backend/pkg/googleauth"
)

// SyncOrganizationEmails syncs every member with a linked mail account, at
// most batchSize concurrently. The run is considered a success when at least
// one member synced.
func (u *syncUsecase) SyncOrganizationEmails(ctx context.Context, organizationID string) *emaildto.OrgSyncResult {
	result := &emaildto.OrgSyncResult{}

	members, err := u.orgRepo.ListMembers(organizationID)
	if err != nil {
		result.Summary = fmt.Sprintf("unable to list members: %v", err)
		return result
	}

	// Only members with no linked account are excluded. A lookup failure
	// still counts as an attempted user with a failed result
	var linked []*authdomain.OrganizationMember
	var failed []*emaildto.UserSyncResult
	for _, member := range members {
		cred, err := u.credentialRepo.GetByUser(member.UserID, googleauth.ProviderGoogle)
		if err != nil {
			log.Printf("[OrgSync] Failed to check credential for user %s: %v", member.UserID, err)
			failed = append(failed, u.credentialFailureResult(member.UserID, err))
			continue
		}
		if cred != nil {
			linked = append(linked, member)
		}
	}

	if len(linked) == 0 && len(failed) == 0 {
		result.Summary = "no members have a linked mail account"
		return result
	}

	result.UsersAttempted = len(linked) + len(failed)
	result.Results = append(result.Results, failed...)
	log.Printf("[OrgSync] Syncing %d users for organization %s in batches of %d",
		len(linked), organizationID, u.batchSize)

	for start := 0; start < len(linked); start += u.batchSize {
		end := start + u.batchSize
		if end > len(linked) {
			end = len(linked)
		}
		batch := linked[start:end]

		// Each goroutine writes its own slot, so every result stays paired
		// with the member it belongs to
		batchResults := make([]*emaildto.UserSyncResult, len(batch))
		var wg sync.WaitGroup
		for i, member := range batch {
			wg.Add(1)
			go func(i int, member *authdomain.OrganizationMember) {
				defer wg.Done()
				batchResults[i] = u.SyncUserEmails(ctx, member.UserID, organizationID)
			}(i, member)
		}
		wg.Wait()

		result.Results = append(result.Results, batchResults...)
	}

	for _, userResult := range result.Results {
		if userResult.Success {
			result.UsersSucceeded++
			result.TotalNewEmails += userResult.NewEmails
			result.TotalEmails += userResult.TotalEmails
		}
	}

	result.Success = result.UsersSucceeded > 0
	result.Summary = fmt.Sprintf("synced %d/%d users, %d new emails",
		result.UsersSucceeded, result.UsersAttempted, result.TotalNewEmails)
	return result
}

func (u *syncUsecase) credentialFailureResult(userID string, cause error) *emaildto.UserSyncResult {
	failure := &emaildto.UserSyncResult{
		UserID:    userID,
		UserName:  "Unknown",
		UserEmail: "Unknown",
		Error:     fmt.Sprintf("unable to load credential: %v", cause),
	}
	if user, err := u.userRepo.FindByID(userID); err == nil && user != nil {
		failure.UserName = user.Name
		failure.UserEmail = user.Email
	}
	return failure
}
