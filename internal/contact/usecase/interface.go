package usecase

import (
	contactdomain "crmsync-backend/internal/contact/domain"
	contactdto "crmsync-backend/internal/contact/dto"
	"crmsync-backend/internal/contact/repository"
)

// ContactUsecase defines the interface for contact/company aggregation
type ContactUsecase interface {
	// Reconcile rebuilds every Contact and Company aggregate of the
	// organization from its stored emails
	Reconcile(organizationID string) (*contactdto.ReconcileResult, error)
	ListContacts(organizationID string, opts repository.ListOptions) ([]*contactdomain.Contact, int64, error)
	ListCompanies(organizationID string, opts repository.ListOptions) ([]*contactdomain.Company, int64, error)
}
