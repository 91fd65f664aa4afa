package repository

import (
	"errors"
	"time"

	emaildomain "crmsync-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// settingsRepository implements SettingsRepository interface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new instance of settingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

func (r *settingsRepository) Get(organizationID string) (*emaildomain.SyncSettings, error) {
	var settings emaildomain.SyncSettings
	err := r.db.Where("organization_id = ?", organizationID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) GetOrCreate(organizationID string) (*emaildomain.SyncSettings, error) {
	settings, err := r.Get(organizationID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = emaildomain.DefaultSyncSettings(organizationID)
	settings.ID = uuid.New().String()
	settings.CreatedAt = time.Now()
	settings.UpdatedAt = time.Now()
	if err := r.db.Create(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) Update(settings *emaildomain.SyncSettings) error {
	settings.UpdatedAt = time.Now()
	return r.db.Save(settings).Error
}

// Reset restores the organization's settings to the defaults
func (r *settingsRepository) Reset(organizationID, updatedBy string) error {
	return r.db.Model(&emaildomain.SyncSettings{}).
		Where("organization_id = ?", organizationID).
		Updates(map[string]interface{}{
			"max_emails_per_sync":  emaildomain.DefaultMaxEmailsPerSync,
			"sync_from_days":       emaildomain.DefaultSyncFromDays,
			"use_incremental_sync": true,
			"updated_at":           time.Now(),
			"updated_by":           updatedBy,
		}).Error
}
