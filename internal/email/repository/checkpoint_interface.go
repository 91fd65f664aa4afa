package repository

import (
	"time"

	emaildomain "crmsync-backend/internal/email/domain"
)

// CheckpointRepository defines the interface for per-user sync state.
// TryBeginSync is the only mutual-exclusion point in the system: the
// transition into "syncing" must be a single conditional update so two
// overlapping runs for the same user cannot both proceed.
type CheckpointRepository interface {
	Get(userID string) (*emaildomain.SyncCheckpoint, error)
	// TryBeginSync atomically moves the checkpoint into the syncing state,
	// creating it if missing. Returns false when a sync is already running.
	TryBeginSync(userID string) (bool, error)
	Complete(userID string, lastSyncAt time.Time, emailCount int64) error
	Fail(userID string, errorMessage string) error
	DeleteByUsers(userIDs []string) (int64, error)
}
