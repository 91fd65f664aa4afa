package domain

import "time"

// Email is the canonical stored message record. MessageID is the provider's
// message identifier and acts as the natural key: re-syncing the same message
// refreshes the mutable fields but never changes identity fields.
type Email struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	MessageID      string    `json:"message_id" gorm:"uniqueIndex;not null"`
	ThreadID       string    `json:"thread_id"`
	Subject        string    `json:"subject"`
	From           string    `json:"from"`
	To             []string  `json:"to" gorm:"serializer:json"`
	CC             []string  `json:"cc" gorm:"serializer:json"`
	BCC            []string  `json:"bcc" gorm:"serializer:json"`
	BodyText       string    `json:"body_text"`
	BodyHTML       string    `json:"body_html"`
	Snippet        string    `json:"snippet"`
	Labels         []string  `json:"labels" gorm:"serializer:json"`
	HasAttachments bool      `json:"has_attachments"`
	IsStarred      bool      `json:"is_starred"`
	ReceivedAt     time.Time `json:"received_at" gorm:"index"`
	UserID         string    `json:"user_id" gorm:"index;not null"`
	OrganizationID string    `json:"organization_id" gorm:"index;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
