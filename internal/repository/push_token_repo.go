package repository

import (
	"context"

	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushTokenRepository push token data access interface
type PushTokenRepository interface {
	Register(ctx context.Context, userID, token string) error
	Delete(ctx context.Context, userID, token string) error
	DeleteTokens(ctx context.Context, tokens []string) error
}

type pushTokenRepository struct {
	db *gorm.DB
}

// NewPushTokenRepository creates a new PushTokenRepository
func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{db: db}
}

// Register stores the token for the user. A token already registered moves to the new user.
func (r *pushTokenRepository) Register(ctx context.Context, userID, token string) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id"}),
	}).Create(&domain.PushToken{UserID: userID, Token: token}).Error
}

// Delete removes a token owned by the user
func (r *pushTokenRepository) Delete(ctx context.Context, userID, token string) error {
	return conn(ctx, r.db).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&domain.PushToken{}).Error
}

// DeleteTokens removes tokens regardless of owner (used to prune dead devices)
func (r *pushTokenRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("token IN ?", tokens).Delete(&domain.PushToken{}).Error
}
