package usecase

import (
	"fmt"
	"log"

	authrepo "crmsync-backend/internal/auth/repository"
	contactrepo "crmsync-backend/internal/contact/repository"
	emaildto "crmsync-backend/internal/email/dto"
	"crmsync-backend/internal/email/repository"
)

// WipeUsecase defines the interface for the organization data reset
type WipeUsecase interface {
	// WipeOrganization deletes every stored email, contact and company of
	// the organization, clears member sync checkpoints and restores the
	// default sync settings
	WipeOrganization(organizationID, requestedBy string) (*emaildto.WipeResult, error)
}

type wipeUsecase struct {
	orgRepo        authrepo.OrganizationRepository
	emailRepo      repository.EmailRepository
	checkpointRepo repository.CheckpointRepository
	settingsRepo   repository.SettingsRepository
	contactRepo    contactrepo.ContactRepository
	companyRepo    contactrepo.CompanyRepository
}

// NewWipeUsecase creates a new instance of wipeUsecase
func NewWipeUsecase(
	orgRepo authrepo.OrganizationRepository,
	emailRepo repository.EmailRepository,
	checkpointRepo repository.CheckpointRepository,
	settingsRepo repository.SettingsRepository,
	contactRepo contactrepo.ContactRepository,
	companyRepo contactrepo.CompanyRepository,
) WipeUsecase {
	return &wipeUsecase{
		orgRepo:        orgRepo,
		emailRepo:      emailRepo,
		checkpointRepo: checkpointRepo,
		settingsRepo:   settingsRepo,
		contactRepo:    contactRepo,
		companyRepo:    companyRepo,
	}
}

func (u *wipeUsecase) WipeOrganization(organizationID, requestedBy string) (*emaildto.WipeResult, error) {
	result := &emaildto.WipeResult{}

	// Contacts before companies so no contact is left pointing at a
	// deleted company
	contactsDeleted, err := u.contactRepo.DeleteByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("unable to delete contacts: %v", err)
	}
	result.ContactsDeleted = contactsDeleted

	companiesDeleted, err := u.companyRepo.DeleteByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("unable to delete companies: %v", err)
	}
	result.CompaniesDeleted = companiesDeleted

	emailsDeleted, err := u.emailRepo.DeleteByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("unable to delete emails: %v", err)
	}
	result.EmailsDeleted = emailsDeleted

	members, err := u.orgRepo.ListMembers(organizationID)
	if err != nil {
		return nil, fmt.Errorf("unable to list members: %v", err)
	}
	userIDs := make([]string, 0, len(members))
	for _, member := range members {
		userIDs = append(userIDs, member.UserID)
	}
	checkpointsDeleted, err := u.checkpointRepo.DeleteByUsers(userIDs)
	if err != nil {
		return nil, fmt.Errorf("unable to delete sync checkpoints: %v", err)
	}
	result.CheckpointsDeleted = checkpointsDeleted

	if err := u.settingsRepo.Reset(organizationID, requestedBy); err != nil {
		return nil, fmt.Errorf("unable to reset sync settings: %v", err)
	}

	log.Printf("[Wipe] Organization %s wiped by %s: %d emails, %d contacts, %d companies",
		organizationID, requestedBy, result.EmailsDeleted, result.ContactsDeleted, result.CompaniesDeleted)
	return result, nil
}
