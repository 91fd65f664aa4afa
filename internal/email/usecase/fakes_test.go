package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	authdomain "crmsync-backend/internal/auth/domain"
	emaildomain "crmsync-backend/internal/email/domain"
	"crmsync-backend/internal/email/repository"
)

type fakeProvider struct {
	mu          sync.Mutex
	listFunc    func(accessToken, query, pageToken string, pageSize int64) (*emaildomain.MessagePage, error)
	getFunc     func(accessToken, messageID string) (*emaildomain.RawMessage, error)
	listCalls   []int64
	inFlight    int
	maxInFlight int
}

func (p *fakeProvider) ListMessageIDs(ctx context.Context, accessToken, query, pageToken string, pageSize int64) (*emaildomain.MessagePage, error) {
	p.mu.Lock()
	p.listCalls = append(p.listCalls, pageSize)
	p.inFlight++
	if p.inFlight > p.maxInFlight {
		p.maxInFlight = p.inFlight
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()
	}()

	return p.listFunc(accessToken, query, pageToken, pageSize)
}

func (p *fakeProvider) GetMessage(ctx context.Context, accessToken, messageID string) (*emaildomain.RawMessage, error) {
	if p.getFunc == nil {
		return &emaildomain.RawMessage{
			ID: messageID,
			Headers: []emaildomain.Header{
				{Name: "Subject", Value: "Message " + messageID},
				{Name: "From", Value: "sender@example.com"},
				{Name: "Date", Value: "Mon, 02 Jan 2006 15:04:05 -0700"},
			},
		}, nil
	}
	return p.getFunc(accessToken, messageID)
}

// pagedProvider returns a fakeProvider serving the given ids in
// provider-paginated pages
func pagedProvider(messageIDs []string) *fakeProvider {
	p := &fakeProvider{}
	p.listFunc = func(_, _, pageToken string, pageSize int64) (*emaildomain.MessagePage, error) {
		offset := 0
		for i, id := range messageIDs {
			if id == pageToken {
				offset = i + 1
				break
			}
		}
		end := offset + int(pageSize)
		if end > len(messageIDs) {
			end = len(messageIDs)
		}
		page := &emaildomain.MessagePage{MessageIDs: messageIDs[offset:end]}
		if end < len(messageIDs) {
			page.NextPageToken = messageIDs[end-1]
		}
		return page, nil
	}
	return p
}

type fakeTokens struct {
	mu           sync.Mutex
	validFunc    func(userID string) (*authdomain.Credential, error)
	refreshFunc  func(userID string) (*authdomain.Credential, error)
	refreshCalls int
}

func (t *fakeTokens) ValidToken(ctx context.Context, userID string) (*authdomain.Credential, error) {
	if t.validFunc == nil {
		return &authdomain.Credential{UserID: userID, AccessToken: "token-" + userID}, nil
	}
	return t.validFunc(userID)
}

func (t *fakeTokens) Refresh(ctx context.Context, userID string) (*authdomain.Credential, error) {
	t.mu.Lock()
	t.refreshCalls++
	t.mu.Unlock()
	if t.refreshFunc == nil {
		return &authdomain.Credential{UserID: userID, AccessToken: "refreshed-" + userID}, nil
	}
	return t.refreshFunc(userID)
}

type fakeEmailRepo struct {
	mu     sync.Mutex
	emails map[string]*emaildomain.Email
}

func newFakeEmailRepo() *fakeEmailRepo {
	return &fakeEmailRepo{emails: make(map[string]*emaildomain.Email)}
}

func (r *fakeEmailRepo) UpsertByMessageID(email *emaildomain.Email) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.emails[email.MessageID]
	r.emails[email.MessageID] = email
	return !exists, nil
}

func (r *fakeEmailRepo) CountByUser(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, email := range r.emails {
		if email.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmailRepo) CountByOrganization(organizationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, email := range r.emails {
		if email.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmailRepo) ForEachByOrganization(organizationID string, fn func(*emaildomain.Email) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, email := range r.emails {
		if email.OrganizationID != organizationID {
			continue
		}
		if err := fn(email); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeEmailRepo) ListByOrganization(organizationID string, opts repository.EmailListOptions) ([]*emaildomain.Email, int64, error) {
	var emails []*emaildomain.Email
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, email := range r.emails {
		if email.OrganizationID == organizationID {
			emails = append(emails, email)
		}
	}
	return emails, int64(len(emails)), nil
}

func (r *fakeEmailRepo) DeleteByOrganization(organizationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, email := range r.emails {
		if email.OrganizationID == organizationID {
			delete(r.emails, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeCheckpointRepo struct {
	mu          sync.Mutex
	checkpoints map[string]*emaildomain.SyncCheckpoint
	completeErr error
}

func newFakeCheckpointRepo() *fakeCheckpointRepo {
	return &fakeCheckpointRepo{checkpoints: make(map[string]*emaildomain.SyncCheckpoint)}
}

func (r *fakeCheckpointRepo) Get(userID string) (*emaildomain.SyncCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.checkpoints[userID]
	if !ok {
		return nil, nil
	}
	copied := *cp
	return &copied, nil
}

func (r *fakeCheckpointRepo) TryBeginSync(userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.checkpoints[userID]
	if !ok {
		r.checkpoints[userID] = &emaildomain.SyncCheckpoint{
			UserID:     userID,
			SyncStatus: emaildomain.SyncStatusSyncing,
		}
		return true, nil
	}
	if cp.SyncStatus == emaildomain.SyncStatusSyncing {
		return false, nil
	}
	cp.SyncStatus = emaildomain.SyncStatusSyncing
	return true, nil
}

func (r *fakeCheckpointRepo) Complete(userID string, lastSyncAt time.Time, emailCount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completeErr != nil {
		return r.completeErr
	}
	cp, ok := r.checkpoints[userID]
	if !ok {
		return errors.New("checkpoint not found")
	}
	cp.SyncStatus = emaildomain.SyncStatusCompleted
	cp.LastSyncAt = &lastSyncAt
	cp.LastError = ""
	cp.EmailCount = emailCount
	return nil
}

func (r *fakeCheckpointRepo) Fail(userID string, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.checkpoints[userID]
	if !ok {
		cp = &emaildomain.SyncCheckpoint{UserID: userID}
		r.checkpoints[userID] = cp
	}
	cp.SyncStatus = emaildomain.SyncStatusFailed
	cp.LastError = errorMessage
	return nil
}

func (r *fakeCheckpointRepo) DeleteByUsers(userIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, userID := range userIDs {
		if _, ok := r.checkpoints[userID]; ok {
			delete(r.checkpoints, userID)
			deleted++
		}
	}
	return deleted, nil
}

type fakeSettingsRepo struct {
	settings *emaildomain.SyncSettings
}

func (r *fakeSettingsRepo) Get(organizationID string) (*emaildomain.SyncSettings, error) {
	return r.settings, nil
}

func (r *fakeSettingsRepo) GetOrCreate(organizationID string) (*emaildomain.SyncSettings, error) {
	if r.settings == nil {
		r.settings = emaildomain.DefaultSyncSettings(organizationID)
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) Update(settings *emaildomain.SyncSettings) error {
	r.settings = settings
	return nil
}

func (r *fakeSettingsRepo) Reset(organizationID, updatedBy string) error {
	r.settings = emaildomain.DefaultSyncSettings(organizationID)
	r.settings.UpdatedBy = updatedBy
	return nil
}

type fakeUserRepo struct {
	users map[string]*authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error { return nil }
func (r *fakeUserRepo) Update(user *authdomain.User) error { return nil }

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error { return nil }

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error                    { return nil }
func (r *fakeUserRepo) ReplaceRefreshToken(token *authdomain.RefreshToken) error { return nil }

type fakeCredentialRepo struct {
	creds map[string]*authdomain.Credential
	errs  map[string]error
}

func (r *fakeCredentialRepo) GetByUser(userID, provider string) (*authdomain.Credential, error) {
	if err, ok := r.errs[userID]; ok {
		return nil, err
	}
	return r.creds[userID], nil
}

func (r *fakeCredentialRepo) Upsert(cred *authdomain.Credential) error {
	r.creds[cred.UserID] = cred
	return nil
}

func (r *fakeCredentialRepo) DeleteByUser(userID, provider string) error {
	delete(r.creds, userID)
	return nil
}

type fakeOrgRepo struct {
	members []*authdomain.OrganizationMember
}

func (r *fakeOrgRepo) FindByDomain(domain string) (*authdomain.Organization, error) { return nil, nil }
func (r *fakeOrgRepo) FindByID(id string) (*authdomain.Organization, error)         { return nil, nil }
func (r *fakeOrgRepo) Create(org *authdomain.Organization) error                    { return nil }
func (r *fakeOrgRepo) AddMember(member *authdomain.OrganizationMember) error        { return nil }
func (r *fakeOrgRepo) FindMembershipByUser(userID string) (*authdomain.OrganizationMember, error) {
	return nil, nil
}
func (r *fakeOrgRepo) FindMemberByID(memberID string) (*authdomain.OrganizationMember, error) {
	return nil, nil
}
func (r *fakeOrgRepo) ListMembers(organizationID string) ([]*authdomain.OrganizationMember, error) {
	return r.members, nil
}
func (r *fakeOrgRepo) UpdateMemberRole(memberID, role string) error { return nil }
func (r *fakeOrgRepo) CountOwners(organizationID string) (int64, error) {
	return 0, nil
}
