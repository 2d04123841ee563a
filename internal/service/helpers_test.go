package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/migration"
	"github.com/recipeinbox/backend/pkg/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// each connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Run(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createRecipe(t *testing.T, db *gorm.DB, owner *domain.User, title string, image *domain.RecipeImage) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		UserID:       owner.ID,
		Title:        title,
		Description:  "A warm bowl",
		Yield:        "4 servings",
		ActiveTime:   "20 min",
		TotalTime:    "1 hr",
		Source:       "Grandma",
		URL:          "https://example.com/soup",
		Notes:        "Salt to taste",
		Ingredients:  "water\nstock\nvegetables",
		Instructions: "Simmer everything.",
		Image:        image,
		Folder:       domain.FolderMain,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func createMessageAt(t *testing.T, db *gorm.DB, from, to *domain.User, body string, at time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{FromUserID: from.ID, ToUserID: to.ID, Body: body, CreatedAt: at}
	require.NoError(t, db.Create(m).Error)
	return m
}

// fakeImageStore records copies and deletions instead of talking to object storage
type fakeImageStore struct {
	mu       sync.Mutex
	copies   int
	sources  []string
	deleted  []string
	failCopy bool
}

func (f *fakeImageStore) Duplicate(ctx context.Context, location string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCopy {
		return nil, errors.New("copy failed")
	}
	f.copies++
	f.sources = append(f.sources, location)
	key := fmt.Sprintf("recipes/copy-%d.jpg", f.copies)
	return &storage.Object{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImageStore) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type notifyCall struct {
	recipient *domain.User
	msg       *domain.Message
}

type recordingNotifier struct {
	calls chan notifyCall
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: make(chan notifyCall, 8)}
}

func (n *recordingNotifier) NotifyMessage(ctx context.Context, recipient *domain.User, msg *domain.Message) {
	n.calls <- notifyCall{recipient: recipient, msg: msg}
}

type publishedEvent struct {
	userID    string
	eventType string
	payload   interface{}
}

// recordingPublisher captures collaboration broadcasts
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, userID, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, eventType: eventType, payload: payload})
	return nil
}

func (p *recordingPublisher) recipients() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.events))
	for _, e := range p.events {
		ids = append(ids, e.userID)
	}
	return ids
}
