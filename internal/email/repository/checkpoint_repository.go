package repository

import (
	"errors"
	"time"

	emaildomain "crmsync-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// checkpointRepository implements CheckpointRepository interface
type checkpointRepository struct {
	db *gorm.DB
}

// NewCheckpointRepository creates a new instance of checkpointRepository
func NewCheckpointRepository(db *gorm.DB) CheckpointRepository {
	return &checkpointRepository{
		db: db,
	}
}

func (r *checkpointRepository) Get(userID string) (*emaildomain.SyncCheckpoint, error) {
	var checkpoint emaildomain.SyncCheckpoint
	err := r.db.Where("user_id = ?", userID).First(&checkpoint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkpoint, nil
}

func (r *checkpointRepository) TryBeginSync(userID string) (bool, error) {
	now := time.Now()

	// Conditional update: succeeds only when no sync is currently running
	result := r.db.Model(&emaildomain.SyncCheckpoint{}).
		Where("user_id = ? AND sync_status <> ?", userID, emaildomain.SyncStatusSyncing).
		Updates(map[string]interface{}{
			"sync_status": emaildomain.SyncStatusSyncing,
			"last_error":  "",
			"updated_at":  now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.Get(userID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		// Row exists but the conditional update matched nothing: a sync is
		// already running
		return false, nil
	}

	checkpoint := &emaildomain.SyncCheckpoint{
		ID:         uuid.New().String(),
		UserID:     userID,
		SyncStatus: emaildomain.SyncStatusSyncing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if createErr := r.db.Create(checkpoint).Error; createErr != nil {
		// A concurrent first sync may have won the insert on the unique user
		// index. Only a row that now exists proves that; anything else is a
		// real write failure
		existing, err := r.Get(userID)
		if err == nil && existing != nil {
			return false, nil
		}
		return false, createErr
	}
	return true, nil
}

func (r *checkpointRepository) Complete(userID string, lastSyncAt time.Time, emailCount int64) error {
	return r.db.Model(&emaildomain.SyncCheckpoint{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"sync_status":  emaildomain.SyncStatusCompleted,
			"last_sync_at": lastSyncAt,
			"email_count":  emailCount,
			"last_error":   "",
			"updated_at":   time.Now(),
		}).Error
}

func (r *checkpointRepository) Fail(userID string, errorMessage string) error {
	now := time.Now()
	result := r.db.Model(&emaildomain.SyncCheckpoint{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"sync_status": emaildomain.SyncStatusFailed,
			"last_error":  errorMessage,
			"updated_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// First sync attempt failed before the checkpoint existed
	checkpoint := &emaildomain.SyncCheckpoint{
		ID:         uuid.New().String(),
		UserID:     userID,
		SyncStatus: emaildomain.SyncStatusFailed,
		LastError:  errorMessage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.Create(checkpoint).Error
}

func (r *checkpointRepository) DeleteByUsers(userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("user_id IN ?", userIDs).Delete(&emaildomain.SyncCheckpoint{})
	return result.RowsAffected, result.Error
}
