package domain

import "time"

// Company is an organization-scoped aggregate keyed by (domain,
// organization). Companies exist only for non-personal domains; the name is
// derived from the domain.
type Company struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Domain         string    `json:"domain" gorm:"uniqueIndex:idx_company_domain_org;not null"`
	OrganizationID string    `json:"organization_id" gorm:"uniqueIndex:idx_company_domain_org;not null"`
	Name           string    `json:"name"`
	EmailCount     int64     `json:"email_count"`
	ContactCount   int64     `json:"contact_count"`
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
