package domain

import "time"

// Contact is an organization-scoped aggregate over every address seen in the
// organization's mail, keyed by (email, organization)
type Contact struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex:idx_contact_email_org;not null"`
	OrganizationID string    `json:"organization_id" gorm:"uniqueIndex:idx_contact_email_org;not null"`
	Name           string    `json:"name"`
	Domain         string    `json:"domain"`
	EmailsSent     int64     `json:"emails_sent"`
	EmailsReceived int64     `json:"emails_received"`
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at" gorm:"index"`
	CompanyID      *string   `json:"company_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}
