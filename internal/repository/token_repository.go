package repository

import (
	"time"

	"github.com/taskcove/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Create persists a new token record
func (r *GormTokenRepository) Create(token *models.AuthToken) error {
	return r.db.Create(token).Error
}

// FindByDigest finds a token by its digest
func (r *GormTokenRepository) FindByDigest(digest string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.Where("digest = ?", digest).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// ListByUser lists all tokens issued to a user
func (r *GormTokenRepository) ListByUser(userID uint64) ([]models.AuthToken, error) {
	var tokens []models.AuthToken
	if err := r.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteByUser removes every token issued to a user
func (r *GormTokenRepository) DeleteByUser(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}

// DeleteExpired removes tokens that expired before the reference time
func (r *GormTokenRepository) DeleteExpired(reference time.Time) error {
	return r.db.Where("expires_at <= ?", reference).Delete(&models.AuthToken{}).Error
}
