package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	"github.com/recipeinbox/backend/pkg/cache"
	"github.com/recipeinbox/backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Resolve(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice")
	require.NoError(t, db.Create(&domain.Session{UserID: user.ID, Token: "opaque-live", ExpiresAt: time.Now().Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&domain.Session{UserID: user.ID, Token: "opaque-stale", ExpiresAt: time.Now().Add(-time.Hour)}).Error)

	manager := jwt.NewManager("session-test-secret", 3600)
	signed, err := manager.GenerateToken(user.ID)
	require.NoError(t, err)
	foreign, err := jwt.NewManager("another-secret", 3600).GenerateToken(user.ID)
	require.NoError(t, err)

	svc := NewSessionService(manager, repository.NewSessionRepository(db), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		wantID  string
		wantErr error
	}{
		{"signed jwt", signed, user.ID, nil},
		{"jwt with wrong key", foreign, "", common.ErrUnauthorized},
		{"stored session", "opaque-live", user.ID, nil},
		{"expired session", "opaque-stale", "", common.ErrUnauthorized},
		{"unknown token", "nope", "", common.ErrUnauthorized},
		{"empty token", "", "", common.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.Resolve(ctx, tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestSessionService_ExpiredJWT(t *testing.T) {
	db := setupTestDB(t)
	manager := jwt.NewManager("session-test-secret", -60)
	token, err := manager.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = NewSessionService(manager, repository.NewSessionRepository(db), nil).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrExpiredToken)
}

// memoryCache is a cache.Service keeping JSON values in a map
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestSessionService_CachesStoredSessions(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice")
	session := &domain.Session{UserID: user.ID, Token: "opaque-live", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, db.Create(session).Error)

	c := newMemoryCache()
	svc := NewSessionService(nil, repository.NewSessionRepository(db), c)
	ctx := context.Background()

	id, err := svc.Resolve(ctx, "opaque-live")
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.LessOrEqual(t, c.ttls[cache.PrefixSession+"opaque-live"], time.Minute)

	// served from cache once the row is gone
	require.NoError(t, db.Delete(session).Error)
	id, err = svc.Resolve(ctx, "opaque-live")
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}
