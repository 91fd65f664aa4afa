package usecase

import (
	"context"

	authdomain "crmsync-backend/internal/auth/domain"
	authdto "crmsync-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication and organization
// membership
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	// GoogleSignIn exchanges an OAuth authorization code, signs the user in
	// (creating the account on first sign-in) and stores the mail credential
	GoogleSignIn(ctx context.Context, code string) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(token string) (*authdomain.User, error)
	// Membership returns the caller's organization membership, creating the
	// organization from the user's email domain when it does not exist yet
	Membership(user *authdomain.User) (*authdomain.OrganizationMember, error)
	ListMembers(organizationID string) ([]*authdomain.OrganizationMember, error)
	UpdateMemberRole(organizationID, memberID, role string) error
}
