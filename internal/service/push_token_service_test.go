package service

import (
	"context"
	"testing"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushTokenService_RegisterIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewPushTokenService(repository.NewPushTokenRepository(db))
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, alice.ID, "device-1"))
	require.NoError(t, svc.Register(ctx, alice.ID, " device-1 "))

	u, err := userRepo.FindWithPushTokens(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"device-1"}, u.Tokens())

	// the device changed hands
	require.NoError(t, svc.Register(ctx, bob.ID, "device-1"))
	u, err = userRepo.FindWithPushTokens(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, u.Tokens())
	u, err = userRepo.FindWithPushTokens(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"device-1"}, u.Tokens())
}

func TestPushTokenService_Unregister(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewPushTokenService(repository.NewPushTokenRepository(db))
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, alice.ID, "device-1"))
	require.NoError(t, svc.Unregister(ctx, bob.ID, "device-1"))

	var n int64
	require.NoError(t, db.Model(&domain.PushToken{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.Unregister(ctx, alice.ID, "device-1"))
	require.NoError(t, db.Model(&domain.PushToken{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPushTokenService_BlankToken(t *testing.T) {
	svc := NewPushTokenService(repository.NewPushTokenRepository(setupTestDB(t)))
	assert.ErrorIs(t, svc.Register(context.Background(), "u", "  "), common.ErrInvalidInput)
	assert.ErrorIs(t, svc.Unregister(context.Background(), "u", ""), common.ErrInvalidInput)
}
