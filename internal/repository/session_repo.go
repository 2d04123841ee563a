package repository

import (
	"context"
	"errors"
	"time"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
)

// SessionRepository session data access interface
type SessionRepository interface {
	FindValid(ctx context.Context, token string) (*domain.Session, error)
	Create(ctx context.Context, session *domain.Session) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// FindValid returns the unexpired session for token
func (r *sessionRepository) FindValid(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := conn(ctx, r.db).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a session
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return conn(ctx, r.db).Create(session).Error
}

// DeleteExpired removes sessions that expired before now
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, r.db).Where("expires_at <= ?", now).Delete(&domain.Session{})
	return result.RowsAffected, result.Error
}
