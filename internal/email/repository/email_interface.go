package repository

import (
	emaildomain "crmsync-backend/internal/email/domain"
)

// EmailListOptions filters and paginates organization email listings
type EmailListOptions struct {
	Page    int
	Limit   int
	Search  string
	Starred *bool
	UserID  string
}

// EmailRepository defines the interface for stored email operations
type EmailRepository interface {
	// UpsertByMessageID stores the email keyed by its provider message ID.
	// Returns whether a new record was created; re-upserting refreshes the
	// mutable fields (labels, bodies, snippet, starred) only.
	UpsertByMessageID(email *emaildomain.Email) (bool, error)
	CountByUser(userID string) (int64, error)
	CountByOrganization(organizationID string) (int64, error)
	// ForEachByOrganization streams every stored email of the organization
	// in batches to the callback
	ForEachByOrganization(organizationID string, fn func(*emaildomain.Email) error) error
	ListByOrganization(organizationID string, opts EmailListOptions) ([]*emaildomain.Email, int64, error)
	DeleteByOrganization(organizationID string) (int64, error)
}
