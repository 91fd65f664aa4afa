package repository

import (
	contactdomain "crmsync-backend/internal/contact/domain"
)

// ListOptions filters and paginates contact/company listings
type ListOptions struct {
	Page      int
	Limit     int
	Search    string
	CompanyID string
	SortBy    string
	SortOrder string
}

// ContactRepository defines the interface for contact aggregates, keyed by
// (email, organization)
type ContactRepository interface {
	GetByEmail(email, organizationID string) (*contactdomain.Contact, error)
	// Upsert writes the aggregate; an already-stored non-empty name is
	// never overwritten
	Upsert(contact *contactdomain.Contact) (created bool, err error)
	CountByCompany(companyID string) (int64, error)
	List(organizationID string, opts ListOptions) ([]*contactdomain.Contact, int64, error)
	DeleteByOrganization(organizationID string) (int64, error)
}

// CompanyRepository defines the interface for company aggregates, keyed by
// (domain, organization)
type CompanyRepository interface {
	GetByDomain(domain, organizationID string) (*contactdomain.Company, error)
	Upsert(company *contactdomain.Company) error
	UpdateContactCount(companyID string, contactCount int64) error
	List(organizationID string, opts ListOptions) ([]*contactdomain.Company, int64, error)
	DeleteByOrganization(organizationID string) (int64, error)
}
