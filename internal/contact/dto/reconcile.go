package dto

// ReconcileResult summarizes a full contact/company rebuild pass
type ReconcileResult struct {
	EmailsScanned   int64 `json:"emails_scanned"`
	Contacts        int   `json:"contacts"`
	Companies       int   `json:"companies"`
	ContactsCreated int   `json:"contacts_created"`
	ContactsUpdated int   `json:"contacts_updated"`
}
