package service

import (
	"context"
	"testing"
	"time"

	"github.com/recipeinbox/backend/internal/collab"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealPlanService_AddAndRemove(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	plan := &domain.MealPlan{UserID: alice.ID, Title: "Week", Collaborators: []domain.User{*bob}}
	require.NoError(t, db.Create(plan).Error)

	pub := &recordingPublisher{}
	svc := NewMealPlanService(repository.NewMealPlanRepository(db), collab.NewMemoryCounter(), pub)
	ctx := context.Background()

	ref, err := svc.AddItem(ctx, alice.ID, plan.ID, &domain.AddMealPlanItemRequest{
		Scheduled: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Title:     "Soup",
		Meal:      "dinner",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ref)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, pub.recipients())
	assert.Equal(t, EventMealPlanItemsUpdated, pub.events[0].eventType)

	got, err := svc.Get(ctx, bob.ID, plan.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "dinner", got.Items[0].Meal)

	ref, err = svc.RemoveItem(ctx, bob.ID, plan.ID, got.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ref)

	payload, ok := pub.events[len(pub.events)-1].payload.(*MealPlanUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, bob.ID, payload.UpdatedBy)
	assert.Equal(t, int64(2), payload.Reference)

	_, err = svc.RemoveItem(ctx, bob.ID, plan.ID, got.Items[0].ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMealPlanService_NonMember(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	mallory := createUser(t, db, "mallory")
	plan := &domain.MealPlan{UserID: alice.ID, Title: "Week"}
	require.NoError(t, db.Create(plan).Error)

	svc := NewMealPlanService(repository.NewMealPlanRepository(db), collab.NewMemoryCounter(), nil)
	_, err := svc.Get(context.Background(), mallory.ID, plan.ID)
	assert.ErrorIs(t, err, common.ErrMealPlanNotFound)
}
