package service

import (
	"context"
	"testing"

	"github.com/recipeinbox/backend/internal/collab"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	"github.com/recipeinbox/backend/pkg/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createShoppingList(t *testing.T, db *gorm.DB, owner *domain.User, collaborators ...domain.User) *domain.ShoppingList {
	t.Helper()
	list := &domain.ShoppingList{UserID: owner.ID, Title: "Groceries", Collaborators: collaborators}
	require.NoError(t, db.Create(list).Error)
	return list
}

func TestShoppingListService_AddItemsAnnouncesToMembers(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	list := createShoppingList(t, db, alice, *bob)
	pub := &recordingPublisher{}
	svc := NewShoppingListService(repository.NewShoppingListRepository(db), collab.NewMemoryCounter(), pub)
	ctx := context.Background()

	ref, err := svc.AddItems(ctx, bob.ID, list.ID, &domain.AddShoppingListItemsRequest{
		Items: []domain.ShoppingListItemInput{{Title: "carrots"}, {Title: "leeks"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ref)

	got, err := svc.Get(ctx, alice.ID, list.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, pub.recipients())
	payload, ok := pub.events[0].payload.(*ShoppingListUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, EventShoppingListItemsUpdated, pub.events[0].eventType)
	assert.Equal(t, list.ID, payload.ShoppingListID)
	assert.Equal(t, bob.ID, payload.UpdatedBy)
	assert.Equal(t, int64(1), payload.Reference)
}

func TestShoppingListService_ReferencesIncreasePerList(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	first := createShoppingList(t, db, alice)
	second := createShoppingList(t, db, alice)
	svc := NewShoppingListService(repository.NewShoppingListRepository(db), collab.NewMemoryCounter(), &recordingPublisher{})
	ctx := context.Background()
	req := &domain.AddShoppingListItemsRequest{Items: []domain.ShoppingListItemInput{{Title: "milk"}}}

	r1, err := svc.AddItems(ctx, alice.ID, first.ID, req)
	require.NoError(t, err)
	r2, err := svc.AddItems(ctx, alice.ID, first.ID, req)
	require.NoError(t, err)
	r3, err := svc.AddItems(ctx, alice.ID, second.ID, req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1)
	assert.Equal(t, int64(2), r2)
	assert.Equal(t, int64(1), r3)
}

func TestShoppingListService_RemoveItems(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	list := createShoppingList(t, db, alice)
	svc := NewShoppingListService(repository.NewShoppingListRepository(db), collab.NewMemoryCounter(), &recordingPublisher{})
	ctx := context.Background()

	_, err := svc.AddItems(ctx, alice.ID, list.ID, &domain.AddShoppingListItemsRequest{
		Items: []domain.ShoppingListItemInput{{Title: "eggs"}, {Title: "flour"}},
	})
	require.NoError(t, err)
	got, err := svc.Get(ctx, alice.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	ref, err := svc.RemoveItems(ctx, alice.ID, list.ID, []string{got.Items[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ref)

	got, err = svc.Get(ctx, alice.ID, list.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = svc.RemoveItems(ctx, alice.ID, list.ID, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestShoppingListService_NonMember(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	mallory := createUser(t, db, "mallory")
	list := createShoppingList(t, db, alice)
	pub := &recordingPublisher{}
	svc := NewShoppingListService(repository.NewShoppingListRepository(db), collab.NewMemoryCounter(), pub)
	ctx := context.Background()

	_, err := svc.Get(ctx, mallory.ID, list.ID)
	assert.ErrorIs(t, err, common.ErrShoppingListNotFound)

	_, err = svc.AddItems(ctx, mallory.ID, list.ID, &domain.AddShoppingListItemsRequest{
		Items: []domain.ShoppingListItemInput{{Title: "candy"}},
	})
	assert.ErrorIs(t, err, common.ErrShoppingListNotFound)
	assert.Empty(t, pub.recipients())
}

func TestShoppingListService_BroadcastsCarryEchoReference(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	list := createShoppingList(t, db, alice, *bob)
	pub := &recordingPublisher{}
	svc := NewShoppingListService(repository.NewShoppingListRepository(db), collab.NewMemoryCounter(), pub)
	ctx := context.Background()
	req := &domain.AddShoppingListItemsRequest{Items: []domain.ShoppingListItemInput{{Title: "basil"}}}
	resource := collab.ResourceKey("shoppingList", list.ID)

	aliceTracker, bobTracker := echo.NewTracker(), echo.NewTracker()
	ref, err := svc.AddItems(ctx, alice.ID, list.ID, req)
	require.NoError(t, err)
	aliceTracker.Record(resource, ref)

	payload := pub.events[0].payload.(*ShoppingListUpdatedPayload)
	assert.False(t, aliceTracker.ShouldReload(resource, payload.Reference))
	assert.True(t, bobTracker.ShouldReload(resource, payload.Reference))

	ref, err = svc.AddItems(ctx, bob.ID, list.ID, req)
	require.NoError(t, err)
	bobTracker.Record(resource, ref)

	payload = pub.events[len(pub.events)-1].payload.(*ShoppingListUpdatedPayload)
	assert.True(t, aliceTracker.ShouldReload(resource, payload.Reference))
	assert.False(t, bobTracker.ShouldReload(resource, payload.Reference))
}
