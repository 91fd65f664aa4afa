package repository

import (
	"errors"
	"time"

	authdomain "crmsync-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// organizationRepository implements OrganizationRepository interface
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new instance of organizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{
		db: db,
	}
}

func (r *organizationRepository) FindByDomain(domain string) (*authdomain.Organization, error) {
	var org authdomain.Organization
	err := r.db.Where("domain = ?", domain).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindByID(id string) (*authdomain.Organization, error) {
	var org authdomain.Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Create(org *authdomain.Organization) error {
	org.ID = uuid.New().String()
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()
	return r.db.Create(org).Error
}

func (r *organizationRepository) AddMember(member *authdomain.OrganizationMember) error {
	member.ID = uuid.New().String()
	member.JoinedAt = time.Now()
	return r.db.Create(member).Error
}

func (r *organizationRepository) FindMembershipByUser(userID string) (*authdomain.OrganizationMember, error) {
	var member authdomain.OrganizationMember
	err := r.db.Where("user_id = ?", userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *organizationRepository) FindMemberByID(memberID string) (*authdomain.OrganizationMember, error) {
	var member authdomain.OrganizationMember
	err := r.db.Where("id = ?", memberID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// ListMembers returns the organization's members with their users preloaded,
// owners first
func (r *organizationRepository) ListMembers(organizationID string) ([]*authdomain.OrganizationMember, error) {
	var members []*authdomain.OrganizationMember
	err := r.db.Where("organization_id = ?", organizationID).
		Preload("User").
		Order("role asc").
		Order("joined_at asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *organizationRepository) UpdateMemberRole(memberID, role string) error {
	return r.db.Model(&authdomain.OrganizationMember{}).
		Where("id = ?", memberID).
		Update("role", role).Error
}

func (r *organizationRepository) CountOwners(organizationID string) (int64, error) {
	var count int64
	err := r.db.Model(&authdomain.OrganizationMember{}).
		Where("organization_id = ? AND role = ?", organizationID, authdomain.RoleOwner).
		Count(&count).Error
	return count, err
}
