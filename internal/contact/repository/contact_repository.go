package repository

import (
	"errors"
	"time"

	contactdomain "crmsync-backend/internal/contact/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contactSortColumns whitelists sortable columns for listings
var contactSortColumns = map[string]string{
	"name":           "name",
	"email":          "email",
	"emailsSent":     "emails_sent",
	"emailsReceived": "emails_received",
	"firstSeenAt":    "first_seen_at",
	"lastSeenAt":     "last_seen_at",
}

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of contactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

func (r *contactRepository) GetByEmail(email, organizationID string) (*contactdomain.Contact, error) {
	var contact contactdomain.Contact
	err := r.db.Where("email = ? AND organization_id = ?", email, organizationID).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Upsert(contact *contactdomain.Contact) (bool, error) {
	existing, err := r.GetByEmail(contact.Email, contact.OrganizationID)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if existing == nil {
		contact.ID = uuid.New().String()
		contact.CreatedAt = now
		contact.UpdatedAt = now
		if createErr := r.db.Create(contact).Error; createErr != nil {
			return false, createErr
		}
		return true, nil
	}

	// First non-empty name wins: keep the stored name unless it is blank
	if existing.Name == "" {
		existing.Name = contact.Name
	}
	existing.Domain = contact.Domain
	existing.EmailsSent = contact.EmailsSent
	existing.EmailsReceived = contact.EmailsReceived
	existing.FirstSeenAt = contact.FirstSeenAt
	existing.LastSeenAt = contact.LastSeenAt
	existing.CompanyID = contact.CompanyID
	existing.UpdatedAt = now
	if saveErr := r.db.Save(existing).Error; saveErr != nil {
		return false, saveErr
	}
	*contact = *existing
	return false, nil
}

func (r *contactRepository) CountByCompany(companyID string) (int64, error) {
	var count int64
	err := r.db.Model(&contactdomain.Contact{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func (r *contactRepository) List(organizationID string, opts ListOptions) ([]*contactdomain.Contact, int64, error) {
	query := r.db.Model(&contactdomain.Contact{}).Where("organization_id = ?", organizationID)

	if opts.CompanyID != "" {
		query = query.Where("company_id = ?", opts.CompanyID)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []*contactdomain.Contact
	err := query.Order(orderClause(contactSortColumns, opts, "last_seen_at")).
		Offset(listOffset(opts)).
		Limit(listLimit(opts)).
		Preload("Company").
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *contactRepository) DeleteByOrganization(organizationID string) (int64, error) {
	result := r.db.Where("organization_id = ?", organizationID).Delete(&contactdomain.Contact{})
	return result.RowsAffected, result.Error
}

func orderClause(columns map[string]string, opts ListOptions, fallback string) string {
	column := fallback
	if mapped, ok := columns[opts.SortBy]; ok {
		column = mapped
	}
	direction := "desc"
	if opts.SortOrder == "asc" {
		direction = "asc"
	}
	return column + " " + direction
}

func listLimit(opts ListOptions) int {
	if opts.Limit <= 0 {
		return 10
	}
	return opts.Limit
}

func listOffset(opts ListOptions) int {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * listLimit(opts)
}
