package usecase

import (
	"fmt"
	"testing"
	"time"

	contactdomain "crmsync-backend/internal/contact/domain"
	"crmsync-backend/internal/contact/repository"
	emaildomain "crmsync-backend/internal/email/domain"
	emailrepo "crmsync-backend/internal/email/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailStore struct {
	emails []*emaildomain.Email
}

func (s *fakeEmailStore) UpsertByMessageID(email *emaildomain.Email) (bool, error) {
	s.emails = append(s.emails, email)
	return true, nil
}

func (s *fakeEmailStore) CountByUser(userID string) (int64, error)        { return 0, nil }
func (s *fakeEmailStore) CountByOrganization(orgID string) (int64, error) { return 0, nil }

func (s *fakeEmailStore) ForEachByOrganization(organizationID string, fn func(*emaildomain.Email) error) error {
	for _, email := range s.emails {
		if email.OrganizationID != organizationID {
			continue
		}
		if err := fn(email); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeEmailStore) ListByOrganization(organizationID string, opts emailrepo.EmailListOptions) ([]*emaildomain.Email, int64, error) {
	return s.emails, int64(len(s.emails)), nil
}

func (s *fakeEmailStore) DeleteByOrganization(organizationID string) (int64, error) {
	deleted := int64(len(s.emails))
	s.emails = nil
	return deleted, nil
}

type fakeContactStore struct {
	contacts map[string]*contactdomain.Contact
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: make(map[string]*contactdomain.Contact)}
}

func (s *fakeContactStore) GetByEmail(email, organizationID string) (*contactdomain.Contact, error) {
	return s.contacts[email], nil
}

func (s *fakeContactStore) Upsert(contact *contactdomain.Contact) (bool, error) {
	existing, ok := s.contacts[contact.Email]
	if !ok {
		contact.ID = fmt.Sprintf("contact-%d", len(s.contacts)+1)
		s.contacts[contact.Email] = contact
		return true, nil
	}
	if existing.Name == "" {
		existing.Name = contact.Name
	}
	existing.EmailsSent = contact.EmailsSent
	existing.EmailsReceived = contact.EmailsReceived
	existing.FirstSeenAt = contact.FirstSeenAt
	existing.LastSeenAt = contact.LastSeenAt
	existing.CompanyID = contact.CompanyID
	*contact = *existing
	return false, nil
}

func (s *fakeContactStore) CountByCompany(companyID string) (int64, error) {
	var count int64
	for _, contact := range s.contacts {
		if contact.CompanyID != nil && *contact.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (s *fakeContactStore) List(organizationID string, opts repository.ListOptions) ([]*contactdomain.Contact, int64, error) {
	var contacts []*contactdomain.Contact
	for _, contact := range s.contacts {
		contacts = append(contacts, contact)
	}
	return contacts, int64(len(contacts)), nil
}

func (s *fakeContactStore) DeleteByOrganization(organizationID string) (int64, error) {
	deleted := int64(len(s.contacts))
	s.contacts = make(map[string]*contactdomain.Contact)
	return deleted, nil
}

type fakeCompanyStore struct {
	companies map[string]*contactdomain.Company
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: make(map[string]*contactdomain.Company)}
}

func (s *fakeCompanyStore) GetByDomain(domain, organizationID string) (*contactdomain.Company, error) {
	return s.companies[domain], nil
}

func (s *fakeCompanyStore) Upsert(company *contactdomain.Company) error {
	existing, ok := s.companies[company.Domain]
	if !ok {
		company.ID = fmt.Sprintf("company-%d", len(s.companies)+1)
		s.companies[company.Domain] = company
		return nil
	}
	existing.EmailCount = company.EmailCount
	existing.FirstSeenAt = company.FirstSeenAt
	existing.LastSeenAt = company.LastSeenAt
	*company = *existing
	return nil
}

func (s *fakeCompanyStore) UpdateContactCount(companyID string, contactCount int64) error {
	for _, company := range s.companies {
		if company.ID == companyID {
			company.ContactCount = contactCount
		}
	}
	return nil
}

func (s *fakeCompanyStore) List(organizationID string, opts repository.ListOptions) ([]*contactdomain.Company, int64, error) {
	var companies []*contactdomain.Company
	for _, company := range s.companies {
		companies = append(companies, company)
	}
	return companies, int64(len(companies)), nil
}

func (s *fakeCompanyStore) DeleteByOrganization(organizationID string) (int64, error) {
	deleted := int64(len(s.companies))
	s.companies = make(map[string]*contactdomain.Company)
	return deleted, nil
}

func TestReconcile(t *testing.T) {
	day1 := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)

	emails := &fakeEmailStore{emails: []*emaildomain.Email{
		{
			MessageID:      "msg-1",
			From:           "alice@acme.com",
			To:             []string{"bob@acme.com"},
			ReceivedAt:     day1,
			OrganizationID: "org-1",
		},
		{
			MessageID:      "msg-2",
			From:           "bob@acme.com",
			To:             []string{"alice@acme.com", "carol@gmail.com"},
			ReceivedAt:     day2,
			OrganizationID: "org-1",
		},
	}}
	contacts := newFakeContactStore()
	companies := newFakeCompanyStore()
	uc := NewContactUsecase(emails, contacts, companies)

	result, err := uc.Reconcile("org-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.EmailsScanned)
	assert.Equal(t, 3, result.Contacts)
	assert.Equal(t, 1, result.Companies)
	assert.Equal(t, 3, result.ContactsCreated)

	alice := contacts.contacts["alice@acme.com"]
	require.NotNil(t, alice)
	assert.Equal(t, int64(1), alice.EmailsSent)
	assert.Equal(t, int64(1), alice.EmailsReceived)
	assert.True(t, alice.FirstSeenAt.Equal(day1))
	assert.True(t, alice.LastSeenAt.Equal(day2))
	require.NotNil(t, alice.CompanyID)

	bob := contacts.contacts["bob@acme.com"]
	require.NotNil(t, bob)
	assert.Equal(t, int64(1), bob.EmailsSent)
	assert.Equal(t, int64(1), bob.EmailsReceived)

	carol := contacts.contacts["carol@gmail.com"]
	require.NotNil(t, carol)
	assert.Equal(t, int64(0), carol.EmailsSent)
	assert.Equal(t, int64(1), carol.EmailsReceived)
	assert.Nil(t, carol.CompanyID, "personal domains never link to a company")

	require.Len(t, companies.companies, 1)
	acme := companies.companies["acme.com"]
	require.NotNil(t, acme)
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, int64(2), acme.ContactCount)
	assert.Equal(t, *alice.CompanyID, acme.ID)
}

func TestReconcileFirstNonEmptyNameWins(t *testing.T) {
	day := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := &fakeEmailStore{emails: []*emaildomain.Email{
		{
			MessageID:      "msg-1",
			From:           "alice@acme.com",
			To:             []string{"bob@acme.com"},
			ReceivedAt:     day,
			OrganizationID: "org-1",
		},
		{
			MessageID:      "msg-2",
			From:           "Alice Smith <alice@acme.com>",
			To:             []string{"bob@acme.com"},
			ReceivedAt:     day.Add(time.Hour),
			OrganizationID: "org-1",
		},
	}}
	contacts := newFakeContactStore()
	uc := NewContactUsecase(emails, contacts, newFakeCompanyStore())

	_, err := uc.Reconcile("org-1")
	require.NoError(t, err)

	alice := contacts.contacts["alice@acme.com"]
	require.NotNil(t, alice)
	assert.Equal(t, "Alice Smith", alice.Name)
	assert.Equal(t, int64(2), alice.EmailsSent)
}

func TestReconcileDeduplicatesParticipantsPerMessage(t *testing.T) {
	day := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := &fakeEmailStore{emails: []*emaildomain.Email{
		{
			MessageID:      "msg-1",
			From:           "alice@acme.com",
			To:             []string{"bob@acme.com"},
			CC:             []string{"bob@acme.com", "Bob <bob@acme.com>"},
			ReceivedAt:     day,
			OrganizationID: "org-1",
		},
	}}
	contacts := newFakeContactStore()
	uc := NewContactUsecase(emails, contacts, newFakeCompanyStore())

	_, err := uc.Reconcile("org-1")
	require.NoError(t, err)

	bob := contacts.contacts["bob@acme.com"]
	require.NotNil(t, bob)
	assert.Equal(t, int64(1), bob.EmailsReceived)
}

func TestReconcileEmptyOrganization(t *testing.T) {
	uc := NewContactUsecase(&fakeEmailStore{}, newFakeContactStore(), newFakeCompanyStore())

	result, err := uc.Reconcile("org-1")
	require.NoError(t, err)

	assert.Zero(t, result.EmailsScanned)
	assert.Zero(t, result.Contacts)
	assert.Zero(t, result.Companies)
}
