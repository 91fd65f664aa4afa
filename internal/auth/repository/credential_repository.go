package repository

import (
	"errors"
	"time"

	authdomain "crmsync-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) GetByUser(userID, provider string) (*authdomain.Credential, error) {
	var cred authdomain.Credential
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// Upsert stores the token pair, replacing any credential already held for
// the same (user, provider)
func (r *credentialRepository) Upsert(cred *authdomain.Credential) error {
	existing, err := r.GetByUser(cred.UserID, cred.Provider)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		cred.ID = uuid.New().String()
		cred.CreatedAt = now
		cred.UpdatedAt = now
		return r.db.Create(cred).Error
	}

	existing.AccessToken = cred.AccessToken
	if cred.RefreshToken != "" {
		existing.RefreshToken = cred.RefreshToken
	}
	existing.ExpiresAt = cred.ExpiresAt
	existing.UpdatedAt = now
	*cred = *existing
	return r.db.Save(existing).Error
}

func (r *credentialRepository) DeleteByUser(userID, provider string) error {
	return r.db.Where("user_id = ? AND provider = ?", userID, provider).Delete(&authdomain.Credential{}).Error
}
