package repository

import (
	"errors"
	"time"

	contactdomain "crmsync-backend/internal/contact/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var companySortColumns = map[string]string{
	"name":         "name",
	"domain":       "domain",
	"emailCount":   "email_count",
	"contactCount": "contact_count",
	"firstSeenAt":  "first_seen_at",
	"lastSeenAt":   "last_seen_at",
}

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new instance of companyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{
		db: db,
	}
}

func (r *companyRepository) GetByDomain(domain, organizationID string) (*contactdomain.Company, error) {
	var company contactdomain.Company
	err := r.db.Where("domain = ? AND organization_id = ?", domain, organizationID).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Upsert(company *contactdomain.Company) error {
	existing, err := r.GetByDomain(company.Domain, company.OrganizationID)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		company.ID = uuid.New().String()
		company.CreatedAt = now
		company.UpdatedAt = now
		return r.db.Create(company).Error
	}

	existing.EmailCount = company.EmailCount
	existing.FirstSeenAt = company.FirstSeenAt
	existing.LastSeenAt = company.LastSeenAt
	existing.UpdatedAt = now
	if saveErr := r.db.Save(existing).Error; saveErr != nil {
		return saveErr
	}
	*company = *existing
	return nil
}

func (r *companyRepository) UpdateContactCount(companyID string, contactCount int64) error {
	return r.db.Model(&contactdomain.Company{}).
		Where("id = ?", companyID).
		Update("contact_count", contactCount).Error
}

func (r *companyRepository) List(organizationID string, opts ListOptions) ([]*contactdomain.Company, int64, error) {
	query := r.db.Model(&contactdomain.Company{}).Where("organization_id = ?", organizationID)

	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("name ILIKE ? OR domain ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []*contactdomain.Company
	err := query.Order(orderClause(companySortColumns, opts, "last_seen_at")).
		Offset(listOffset(opts)).
		Limit(listLimit(opts)).
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *companyRepository) DeleteByOrganization(organizationID string) (int64, error) {
	result := r.db.Where("organization_id = ?", organizationID).Delete(&contactdomain.Company{})
	return result.RowsAffected, result.Error
}
