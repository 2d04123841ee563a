package service

import (
	"context"
	"errors"
	"time"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/repository"
	"github.com/recipeinbox/backend/pkg/cache"
	"github.com/recipeinbox/backend/pkg/jwt"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
)

// SessionService resolves a session token to the id of the signed-in user
type SessionService interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type sessionService struct {
	jwtManager  *jwt.Manager
	sessionRepo repository.SessionRepository
	cache       cache.Service
}

// cachedSession is what a resolved opaque token caches to
type cachedSession struct {
	UserID string `json:"user_id"`
}

// NewSessionService creates a new SessionService.
// jwtManager may be nil to accept only stored sessions; cacheService may be nil.
func NewSessionService(jwtManager *jwt.Manager, sessionRepo repository.SessionRepository, cacheService cache.Service) SessionService {
	return &sessionService{
		jwtManager:  jwtManager,
		sessionRepo: sessionRepo,
		cache:       cacheService,
	}
}

// Resolve accepts a signed JWT carrying user_id, or an opaque token stored in the sessions table.
// Every failure maps to common.ErrUnauthorized except storage errors.
func (s *sessionService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthorized
	}

	if s.jwtManager != nil && jwt.LooksLikeJWT(token) {
		claims, err := s.jwtManager.VerifyToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				return "", common.ErrExpiredToken
			}
			return "", common.ErrUnauthorized
		}
		return claims.UserID, nil
	}

	key := cache.PrefixSession + token
	if s.cache != nil {
		var cached cachedSession
		if err := s.cache.Get(ctx, key, &cached); err == nil && cached.UserID != "" {
			return cached.UserID, nil
		}
	}

	session, err := s.sessionRepo.FindValid(ctx, token)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		// never cache past the session's own expiry
		ttl := time.Until(session.ExpiresAt)
		if ttl > cache.TTLSession {
			ttl = cache.TTLSession
		}
		if err := s.cache.Set(ctx, key, &cachedSession{UserID: session.UserID}, ttl); err != nil {
			pkglogger.GetLogger().Debug().Err(err).Msg("failed to cache session")
		}
	}
	return session.UserID, nil
}
