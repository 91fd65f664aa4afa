package repository

import (
	"errors"
	"time"

	emaildomain "crmsync-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailRepository implements EmailRepository interface
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

func (r *emailRepository) UpsertByMessageID(email *emaildomain.Email) (bool, error) {
	var existing emaildomain.Email
	err := r.db.Where("message_id = ?", email.MessageID).First(&existing).Error

	now := time.Now()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		email.ID = uuid.New().String()
		email.CreatedAt = now
		email.UpdatedAt = now
		if createErr := r.db.Create(email).Error; createErr != nil {
			return false, createErr
		}
		return true, nil
	} else if err != nil {
		return false, err
	}

	// Refresh mutable fields only; identity fields keep their stored values
	existing.Subject = email.Subject
	existing.BodyText = email.BodyText
	existing.BodyHTML = email.BodyHTML
	existing.Snippet = email.Snippet
	existing.Labels = email.Labels
	existing.HasAttachments = email.HasAttachments
	existing.IsStarred = email.IsStarred
	existing.UpdatedAt = now
	if saveErr := r.db.Save(&existing).Error; saveErr != nil {
		return false, saveErr
	}
	*email = existing
	return false, nil
}

func (r *emailRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.Email{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *emailRepository) CountByOrganization(organizationID string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.Email{}).Where("organization_id = ?", organizationID).Count(&count).Error
	return count, err
}

func (r *emailRepository) ForEachByOrganization(organizationID string, fn func(*emaildomain.Email) error) error {
	var batch []*emaildomain.Email
	result := r.db.Where("organization_id = ?", organizationID).
		Order("received_at asc").
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for _, email := range batch {
				if err := fn(email); err != nil {
					return err
				}
			}
			return nil
		})
	return result.Error
}

func (r *emailRepository) ListByOrganization(organizationID string, opts EmailListOptions) ([]*emaildomain.Email, int64, error) {
	query := r.db.Model(&emaildomain.Email{}).Where("organization_id = ?", organizationID)

	if opts.UserID != "" {
		query = query.Where("user_id = ?", opts.UserID)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("subject ILIKE ? OR \"from\" ILIKE ?", like, like)
	}
	if opts.Starred != nil {
		query = query.Where("is_starred = ?", *opts.Starred)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	var emails []*emaildomain.Email
	err := query.Order("received_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&emails).Error
	if err != nil {
		return nil, 0, err
	}
	return emails, total, nil
}

func (r *emailRepository) DeleteByOrganization(organizationID string) (int64, error) {
	result := r.db.Where("organization_id = ?", organizationID).Delete(&emaildomain.Email{})
	return result.RowsAffected, result.Error
}
