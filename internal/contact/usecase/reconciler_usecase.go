package usecase

import (
	"fmt"
	"log"
	"time"

	contactdomain "crmsync-backend/internal/contact/domain"
	contactdto "crmsync-backend/internal/contact/dto"
	"crmsync-backend/internal/contact/repository"
	emaildomain "crmsync-backend/internal/email/domain"
	emailrepo "crmsync-backend/internal/email/repository"
	"crmsync-backend/pkg/emailparse"
)

type contactUsecase struct {
	emailRepo   emailrepo.EmailRepository
	contactRepo repository.ContactRepository
	companyRepo repository.CompanyRepository
}

// NewContactUsecase creates a new instance of contactUsecase
func NewContactUsecase(
	emailRepo emailrepo.EmailRepository,
	contactRepo repository.ContactRepository,
	companyRepo repository.CompanyRepository,
) ContactUsecase {
	return &contactUsecase{
		emailRepo:   emailRepo,
		contactRepo: contactRepo,
		companyRepo: companyRepo,
	}
}

// contactAggregate is the in-memory fold for one address
type contactAggregate struct {
	email          string
	name           string
	domain         string
	emailsSent     int64
	emailsReceived int64
	firstSeenAt    time.Time
	lastSeenAt     time.Time
}

// companyAggregate is the in-memory fold for one non-personal domain
type companyAggregate struct {
	domain      string
	name        string
	emailCount  int64
	firstSeenAt time.Time
	lastSeenAt  time.Time
}

// Reconcile scans every stored email of the organization and rebuilds the
// Contact and Company aggregates from scratch. Persistence is three-phased:
// companies first so contacts can reference their identifiers, then contacts,
// then a recount of each company's contacts.
func (u *contactUsecase) Reconcile(organizationID string) (*contactdto.ReconcileResult, error) {
	contacts := make(map[string]*contactAggregate)
	companies := make(map[string]*companyAggregate)
	result := &contactdto.ReconcileResult{}

	err := u.emailRepo.ForEachByOrganization(organizationID, func(email *emaildomain.Email) error {
		result.EmailsScanned++
		u.foldEmail(contacts, companies, email)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to scan stored emails: %v", err)
	}

	// Phase 1: companies
	companyIDs := make(map[string]string, len(companies))
	for _, agg := range companies {
		company := &contactdomain.Company{
			Domain:         agg.domain,
			OrganizationID: organizationID,
			Name:           agg.name,
			EmailCount:     agg.emailCount,
			FirstSeenAt:    agg.firstSeenAt,
			LastSeenAt:     agg.lastSeenAt,
		}
		if err := u.companyRepo.Upsert(company); err != nil {
			return nil, fmt.Errorf("unable to save company %s: %v", agg.domain, err)
		}
		companyIDs[agg.domain] = company.ID
	}

	// Phase 2: contacts, linked to their company by domain
	for _, agg := range contacts {
		contact := &contactdomain.Contact{
			Email:          agg.email,
			OrganizationID: organizationID,
			Name:           agg.name,
			Domain:         agg.domain,
			EmailsSent:     agg.emailsSent,
			EmailsReceived: agg.emailsReceived,
			FirstSeenAt:    agg.firstSeenAt,
			LastSeenAt:     agg.lastSeenAt,
		}
		if !emailparse.IsPersonalDomain(agg.domain) {
			if companyID, ok := companyIDs[agg.domain]; ok {
				contact.CompanyID = &companyID
			}
		}

		created, err := u.contactRepo.Upsert(contact)
		if err != nil {
			return nil, fmt.Errorf("unable to save contact %s: %v", agg.email, err)
		}
		if created {
			result.ContactsCreated++
		} else {
			result.ContactsUpdated++
		}
	}

	// Phase 3: contact counts are only accurate once every contact is written
	for domain, companyID := range companyIDs {
		count, err := u.contactRepo.CountByCompany(companyID)
		if err != nil {
			return nil, fmt.Errorf("unable to count contacts of %s: %v", domain, err)
		}
		if err := u.companyRepo.UpdateContactCount(companyID, count); err != nil {
			return nil, fmt.Errorf("unable to update contact count of %s: %v", domain, err)
		}
	}

	result.Contacts = len(contacts)
	result.Companies = len(companies)
	log.Printf("[Reconcile] Organization %s: %d emails scanned, %d contacts, %d companies",
		organizationID, result.EmailsScanned, result.Contacts, result.Companies)
	return result, nil
}

// foldEmail merges one email's participants into the running aggregates
func (u *contactUsecase) foldEmail(
	contacts map[string]*contactAggregate,
	companies map[string]*companyAggregate,
	email *emaildomain.Email,
) {
	fromAddr := emailparse.Parse(email.From)

	// Union of all participants, deduplicated by normalized address
	participants := make(map[string]*emailparse.ParsedAddress)
	if fromAddr != nil {
		participants[fromAddr.Email] = fromAddr
	}
	for _, addr := range emailparse.ParseList(email.To) {
		participants[addr.Email] = addr
	}
	for _, addr := range emailparse.ParseList(email.CC) {
		participants[addr.Email] = addr
	}
	for _, addr := range emailparse.ParseList(email.BCC) {
		participants[addr.Email] = addr
	}

	seenDomains := make(map[string]struct{})
	for _, addr := range participants {
		agg, ok := contacts[addr.Email]
		if !ok {
			agg = &contactAggregate{
				email:       addr.Email,
				domain:      addr.Domain,
				firstSeenAt: email.ReceivedAt,
				lastSeenAt:  email.ReceivedAt,
			}
			contacts[addr.Email] = agg
		}
		if agg.name == "" {
			agg.name = addr.Name
		}
		if fromAddr != nil && addr.Email == fromAddr.Email {
			agg.emailsSent++
		} else {
			agg.emailsReceived++
		}
		if email.ReceivedAt.Before(agg.firstSeenAt) {
			agg.firstSeenAt = email.ReceivedAt
		}
		if email.ReceivedAt.After(agg.lastSeenAt) {
			agg.lastSeenAt = email.ReceivedAt
		}

		if addr.IsPersonal {
			continue
		}
		if _, counted := seenDomains[addr.Domain]; counted {
			continue
		}
		seenDomains[addr.Domain] = struct{}{}

		company, ok := companies[addr.Domain]
		if !ok {
			company = &companyAggregate{
				domain:      addr.Domain,
				name:        emailparse.CompanyNameFromDomain(addr.Domain),
				firstSeenAt: email.ReceivedAt,
				lastSeenAt:  email.ReceivedAt,
			}
			companies[addr.Domain] = company
		}
		company.emailCount++
		if email.ReceivedAt.Before(company.firstSeenAt) {
			company.firstSeenAt = email.ReceivedAt
		}
		if email.ReceivedAt.After(company.lastSeenAt) {
			company.lastSeenAt = email.ReceivedAt
		}
	}
}

// ListContacts returns one page of the organization's contacts
func (u *contactUsecase) ListContacts(organizationID string, opts repository.ListOptions) ([]*contactdomain.Contact, int64, error) {
	return u.contactRepo.List(organizationID, opts)
}

// ListCompanies returns one page of the organization's companies
func (u *contactUsecase) ListCompanies(organizationID string, opts repository.ListOptions) ([]*contactdomain.Company, int64, error) {
	return u.companyRepo.List(organizationID, opts)
}
