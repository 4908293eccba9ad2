package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"recipehub/internal/cache"
	"recipehub/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for opaque bearer tokens.
type TokenRepository interface {
	// GetOrCreate returns the user's current token, issuing a fresh one
	// if none exists. A user holds at most one active token.
	GetOrCreate(ctx context.Context, userID uint) (*models.Token, error)
	// GetByKey resolves an opaque key to its token row, or nil if unknown.
	GetByKey(ctx context.Context, key string) (*models.Token, error)
	// DeleteByUserID revokes the user's token.
	DeleteByUserID(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// generateKey produces a 40-character hex key from a CSPRNG.
func generateKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	key, err := generateKey()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	token = models.Token{Key: key, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		// Lost a race with a concurrent login; reuse the winner's row.
		if isUniqueConstraintError(err) {
			if ferr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; ferr == nil {
				return &token, nil
			}
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.Token, error) {
	var token models.Token

	err := cache.Aside(ctx, cache.TokenKey(key), &token, cache.TokenTTL, func() error {
		if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewUnauthorizedError("Invalid token")
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	var token models.Token
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Delete(&token).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateToken(ctx, token.Key)
	return nil
}
