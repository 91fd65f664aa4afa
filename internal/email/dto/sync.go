package dto

import "time"

// UserSyncResult reports one user's sync outcome within an organization run
type UserSyncResult struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	Success     bool   `json:"success"`
	NewEmails   int    `json:"new_emails"`
	TotalEmails int64  `json:"total_emails"`
	Error       string `json:"error,omitempty"`
}

// OrgSyncResult aggregates the per-user results of an organization-wide sync
type OrgSyncResult struct {
	Success        bool              `json:"success"`
	UsersAttempted int               `json:"users_attempted"`
	UsersSucceeded int               `json:"users_succeeded"`
	TotalNewEmails int               `json:"total_new_emails"`
	TotalEmails    int64             `json:"total_emails"`
	Results        []*UserSyncResult `json:"results"`
	Summary        string            `json:"summary"`
}

// SyncStats is the per-user sync status surface for the dashboard
type SyncStats struct {
	TotalEmails int64      `json:"total_emails"`
	LastSyncAt  *time.Time `json:"last_sync_at"`
	SyncStatus  string     `json:"sync_status"`
	LastError   string     `json:"last_error,omitempty"`
}

// WipeResult reports what an organization data reset removed
type WipeResult struct {
	EmailsDeleted      int64 `json:"emails_deleted"`
	ContactsDeleted    int64 `json:"contacts_deleted"`
	CompaniesDeleted   int64 `json:"companies_deleted"`
	CheckpointsDeleted int64 `json:"checkpoints_deleted"`
}

// UpdateSettingsRequest carries a sync settings update
type UpdateSettingsRequest struct {
	MaxEmailsPerSync   int  `json:"max_emails_per_sync" binding:"required,min=1,max=500"`
	SyncFromDays       int  `json:"sync_from_days" binding:"required,min=1,max=365"`
	UseIncrementalSync bool `json:"use_incremental_sync"`
}
