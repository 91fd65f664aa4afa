package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	authdomain "crmsync-backend/internal/auth/domain"
	authdto "crmsync-backend/internal/auth/dto"
	"crmsync-backend/internal/auth/repository"
	"crmsync-backend/pkg/config"
	"crmsync-backend/pkg/emailparse"
	"crmsync-backend/pkg/googleauth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	tokens   *googleauth.Manager
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	tokens *googleauth.Manager,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		tokens:   tokens,
		config:   cfg,
	}
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    strings.ToLower(req.Email),
		Password: hashedPassword,
		Name:     req.Name,
		Provider: "email",
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.signIn(user)
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	if user.Provider != "email" {
		return nil, errors.New("please use Google Sign-In for this account")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.signIn(user)
}

// googleUserInfo represents the response from Google's userinfo endpoint
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (u *authUsecase) GoogleSignIn(ctx context.Context, code string) (*authdto.TokenResponse, error) {
	token, err := u.tokens.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := fetchGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, errors.New("google email is not verified")
	}

	user, err := u.userRepo.FindByEmail(strings.ToLower(info.Email))
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:     strings.ToLower(info.Email),
			Name:      info.Name,
			AvatarURL: info.Picture,
			Provider:  "google",
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else {
		user.Name = info.Name
		user.AvatarURL = info.Picture
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	// Keep the mailbox credential so sync can run without re-consent
	if _, err := u.tokens.StoreToken(user.ID, token); err != nil {
		return nil, fmt.Errorf("unable to store mail credential: %v", err)
	}

	return u.signIn(user)
}

func fetchGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.New("failed to fetch Google user info: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch Google user info: status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.New("failed to decode Google user info: " + err.Error())
	}
	return &info, nil
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return u.signIn(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

// Membership returns the user's membership, auto-assigning them to the
// organization of their email domain on first call. The first member of an
// organization becomes its owner.
func (u *authUsecase) Membership(user *authdomain.User) (*authdomain.OrganizationMember, error) {
	existing, err := u.orgRepo.FindMembershipByUser(user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	domain := emailparse.ExtractDomain(user.Email)
	if domain == "" {
		return nil, errors.New("cannot derive organization from email")
	}

	org, err := u.orgRepo.FindByDomain(domain)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if org == nil {
		org = &authdomain.Organization{
			ID:        uuid.New().String(),
			Name:      organizationName(domain),
			Domain:    domain,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := u.orgRepo.Create(org); err != nil {
			return nil, err
		}
	}

	role := authdomain.RoleMember
	owners, err := u.orgRepo.CountOwners(org.ID)
	if err != nil {
		return nil, err
	}
	if owners == 0 {
		role = authdomain.RoleOwner
	}

	member := &authdomain.OrganizationMember{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           role,
		JoinedAt:       now,
	}
	if err := u.orgRepo.AddMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// organizationName derives a display name from the organization's domain,
// e.g. "acme-corp.com" -> "Acme corp"
func organizationName(domain string) string {
	return strings.ReplaceAll(emailparse.CompanyNameFromDomain(domain), "-", " ")
}

func (u *authUsecase) ListMembers(organizationID string) ([]*authdomain.OrganizationMember, error) {
	return u.orgRepo.ListMembers(organizationID)
}

// UpdateMemberRole changes a member's role. An organization always keeps at
// least one owner.
func (u *authUsecase) UpdateMemberRole(organizationID, memberID, role string) error {
	if role != authdomain.RoleOwner && role != authdomain.RoleMember {
		return errors.New("invalid role")
	}

	member, err := u.orgRepo.FindMemberByID(memberID)
	if err != nil {
		return err
	}
	if member == nil || member.OrganizationID != organizationID {
		return errors.New("member not found")
	}

	if member.Role == authdomain.RoleOwner && role != authdomain.RoleOwner {
		owners, err := u.orgRepo.CountOwners(organizationID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return errors.New("organization must keep at least one owner")
		}
	}

	return u.orgRepo.UpdateMemberRole(memberID, role)
}

func (u *authUsecase) signIn(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.ReplaceRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	member, err := u.Membership(user)
	if err != nil {
		return nil, err
	}
	org, err := u.orgRepo.FindByID(member.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Organization: org,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
