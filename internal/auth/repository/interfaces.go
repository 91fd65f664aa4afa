package repository

import (
	authdomain "crmsync-backend/internal/auth/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	ReplaceRefreshToken(token *authdomain.RefreshToken) error
}

// CredentialRepository stores the OAuth token pair per (user, provider)
type CredentialRepository interface {
	GetByUser(userID, provider string) (*authdomain.Credential, error)
	Upsert(cred *authdomain.Credential) error
	DeleteByUser(userID, provider string) error
}

// OrganizationRepository defines the interface for organization and
// membership persistence
type OrganizationRepository interface {
	FindByDomain(domain string) (*authdomain.Organization, error)
	FindByID(id string) (*authdomain.Organization, error)
	Create(org *authdomain.Organization) error
	AddMember(member *authdomain.OrganizationMember) error
	FindMembershipByUser(userID string) (*authdomain.OrganizationMember, error)
	FindMemberByID(memberID string) (*authdomain.OrganizationMember, error)
	ListMembers(organizationID string) ([]*authdomain.OrganizationMember, error)
	UpdateMemberRole(memberID, role string) error
	CountOwners(organizationID string) (int64, error)
}
