package service

import (
	"context"
	"strings"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/repository"
)

// PushTokenService manages the device tokens push notifications are sent to
type PushTokenService interface {
	Register(ctx context.Context, userID, token string) error
	Unregister(ctx context.Context, userID, token string) error
}

type pushTokenService struct {
	repo repository.PushTokenRepository
}

// NewPushTokenService creates a new PushTokenService
func NewPushTokenService(repo repository.PushTokenRepository) PushTokenService {
	return &pushTokenService{repo: repo}
}

// Register is idempotent; re-registering a token another user held moves it to userID
func (s *pushTokenService) Register(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.ErrInvalidInput
	}
	return s.repo.Register(ctx, userID, token)
}

// Unregister removes the token if userID owns it
func (s *pushTokenService) Unregister(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.ErrInvalidInput
	}
	return s.repo.Delete(ctx, userID, token)
}
