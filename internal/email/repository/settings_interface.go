package repository

import (
	emaildomain "crmsync-backend/internal/email/domain"
)

// SettingsRepository defines the interface for per-organization sync settings
type SettingsRepository interface {
	// Get returns the stored settings or nil when the organization has none
	Get(organizationID string) (*emaildomain.SyncSettings, error)
	// GetOrCreate returns the stored settings, creating the defaults first
	// when the organization has none
	GetOrCreate(organizationID string) (*emaildomain.SyncSettings, error)
	Update(settings *emaildomain.SyncSettings) error
	Reset(organizationID, updatedBy string) error
}
