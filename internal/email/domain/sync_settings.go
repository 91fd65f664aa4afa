package domain

import "time"

// Default sync settings applied when an organization has none stored
const (
	DefaultMaxEmailsPerSync = 50
	DefaultSyncFromDays     = 30
)

// SyncSettings is the per-organization sync configuration
type SyncSettings struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	OrganizationID     string    `json:"organization_id" gorm:"uniqueIndex;not null"`
	MaxEmailsPerSync   int       `json:"max_emails_per_sync"`
	SyncFromDays       int       `json:"sync_from_days"`
	UseIncrementalSync bool      `json:"use_incremental_sync"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	UpdatedBy          string    `json:"updated_by"`
}

// DefaultSyncSettings returns the settings used before an organization has
// saved its own
func DefaultSyncSettings(organizationID string) *SyncSettings {
	return &SyncSettings{
		OrganizationID:     organizationID,
		MaxEmailsPerSync:   DefaultMaxEmailsPerSync,
		SyncFromDays:       DefaultSyncFromDays,
		UseIncrementalSync: true,
	}
}
