package domain

import "time"

const (
	SyncStatusIdle      = "idle"
	SyncStatusSyncing   = "syncing"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncCheckpoint tracks one user's mailbox sync state. Only one sync may be
// in the "syncing" state per user; the transition into it is an atomic
// conditional update in the repository.
type SyncCheckpoint struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;not null"`
	SyncStatus string     `json:"sync_status"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	LastError  string     `json:"last_error"`
	EmailCount int64      `json:"email_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
