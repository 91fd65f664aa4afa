package usecase

import (
	"testing"
	"time"

	authdomain "crmsync-backend/internal/auth/domain"
	authdto "crmsync-backend/internal/auth/dto"
	"crmsync-backend/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserRepo struct {
	users  map[string]*authdomain.User
	tokens map[string]*authdomain.RefreshToken
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:  make(map[string]*authdomain.User),
		tokens: make(map[string]*authdomain.RefreshToken),
	}
}

func (r *memoryUserRepo) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *memoryUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *memoryUserRepo) DeleteRefreshToken(token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *memoryUserRepo) ReplaceRefreshToken(token *authdomain.RefreshToken) error {
	for stored, existing := range r.tokens {
		if existing.UserID == token.UserID {
			delete(r.tokens, stored)
		}
	}
	r.tokens[token.Token] = token
	return nil
}

type memoryOrgRepo struct {
	orgs    map[string]*authdomain.Organization
	members map[string]*authdomain.OrganizationMember
}

func newMemoryOrgRepo() *memoryOrgRepo {
	return &memoryOrgRepo{
		orgs:    make(map[string]*authdomain.Organization),
		members: make(map[string]*authdomain.OrganizationMember),
	}
}

func (r *memoryOrgRepo) FindByDomain(domain string) (*authdomain.Organization, error) {
	for _, org := range r.orgs {
		if org.Domain == domain {
			return org, nil
		}
	}
	return nil, nil
}

func (r *memoryOrgRepo) FindByID(id string) (*authdomain.Organization, error) {
	return r.orgs[id], nil
}

func (r *memoryOrgRepo) Create(org *authdomain.Organization) error {
	r.orgs[org.ID] = org
	return nil
}

func (r *memoryOrgRepo) AddMember(member *authdomain.OrganizationMember) error {
	r.members[member.ID] = member
	return nil
}

func (r *memoryOrgRepo) FindMembershipByUser(userID string) (*authdomain.OrganizationMember, error) {
	for _, member := range r.members {
		if member.UserID == userID {
			return member, nil
		}
	}
	return nil, nil
}

func (r *memoryOrgRepo) FindMemberByID(memberID string) (*authdomain.OrganizationMember, error) {
	return r.members[memberID], nil
}

func (r *memoryOrgRepo) ListMembers(organizationID string) ([]*authdomain.OrganizationMember, error) {
	var members []*authdomain.OrganizationMember
	for _, member := range r.members {
		if member.OrganizationID == organizationID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (r *memoryOrgRepo) UpdateMemberRole(memberID, role string) error {
	if member, ok := r.members[memberID]; ok {
		member.Role = role
	}
	return nil
}

func (r *memoryOrgRepo) CountOwners(organizationID string) (int64, error) {
	var count int64
	for _, member := range r.members {
		if member.OrganizationID == organizationID && member.Role == authdomain.RoleOwner {
			count++
		}
	}
	return count, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func newTestUsecase() (AuthUsecase, *memoryUserRepo, *memoryOrgRepo) {
	userRepo := newMemoryUserRepo()
	orgRepo := newMemoryOrgRepo()
	return NewAuthUsecase(userRepo, orgRepo, nil, testConfig()), userRepo, orgRepo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _, _ := newTestUsecase()

	resp, err := uc.Register(&authdto.RegisterRequest{
		Email:    "alice@acme.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.Organization)
	assert.Equal(t, "acme.com", resp.Organization.Domain)
	assert.Equal(t, "Acme", resp.Organization.Name)

	// Duplicate registration is rejected
	_, err = uc.Register(&authdto.RegisterRequest{
		Email:    "alice@acme.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.Error(t, err)

	login, err := uc.Login(&authdto.LoginRequest{Email: "alice@acme.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = uc.Login(&authdto.LoginRequest{Email: "alice@acme.com", Password: "wrong-password"})
	require.Error(t, err)
}

func TestMembershipAutoAssignment(t *testing.T) {
	uc, _, orgRepo := newTestUsecase()

	first, err := uc.Register(&authdto.RegisterRequest{
		Email:    "alice@acme.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.NoError(t, err)

	second, err := uc.Register(&authdto.RegisterRequest{
		Email:    "bob@acme.com",
		Password: "secret123",
		Name:     "Bob",
	})
	require.NoError(t, err)

	// Both land in the same organization, first member owns it
	assert.Equal(t, first.Organization.ID, second.Organization.ID)

	aliceMember, err := orgRepo.FindMembershipByUser(first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleOwner, aliceMember.Role)

	bobMember, err := orgRepo.FindMembershipByUser(second.User.ID)
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleMember, bobMember.Role)
}

func TestUpdateMemberRoleKeepsLastOwner(t *testing.T) {
	uc, _, orgRepo := newTestUsecase()

	first, err := uc.Register(&authdto.RegisterRequest{
		Email:    "alice@acme.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.NoError(t, err)

	second, err := uc.Register(&authdto.RegisterRequest{
		Email:    "bob@acme.com",
		Password: "secret123",
		Name:     "Bob",
	})
	require.NoError(t, err)

	orgID := first.Organization.ID
	aliceMember, _ := orgRepo.FindMembershipByUser(first.User.ID)
	bobMember, _ := orgRepo.FindMembershipByUser(second.User.ID)

	// Demoting the only owner is rejected
	err = uc.UpdateMemberRole(orgID, aliceMember.ID, authdomain.RoleMember)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one owner")

	// Promote bob, then the demotion goes through
	require.NoError(t, uc.UpdateMemberRole(orgID, bobMember.ID, authdomain.RoleOwner))
	require.NoError(t, uc.UpdateMemberRole(orgID, aliceMember.ID, authdomain.RoleMember))

	err = uc.UpdateMemberRole(orgID, "missing-member", authdomain.RoleOwner)
	require.Error(t, err)

	err = uc.UpdateMemberRole(orgID, bobMember.ID, "SUPERUSER")
	require.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	uc, _, _ := newTestUsecase()

	resp, err := uc.Register(&authdto.RegisterRequest{
		Email:    "alice@acme.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.NoError(t, err)

	user, err := uc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = uc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	uc, userRepo, _ := newTestUsecase()

	resp, err := uc.Register(&authdto.RegisterRequest{
		Email:    "alice@acme.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.NoError(t, err)

	refreshed, err := uc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The old refresh token was replaced and can no longer be used
	stale, err := userRepo.FindRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, stale)

	_, err = uc.RefreshToken(resp.RefreshToken)
	require.Error(t, err)
}
