package collab

import (
	"context"

	pkglogger "github.com/recipeinbox/backend/pkg/logger"
)

// Publisher publishes an event to a user's live connections
type Publisher interface {
	Publish(ctx context.Context, userID, eventType string, payload interface{}) error
}

// Announce broadcasts a collaborative update to every member. Delivery is best effort.
func Announce(ctx context.Context, pub Publisher, memberIDs []string, eventType string, payload interface{}) {
	if pub == nil {
		return
	}
	for _, id := range memberIDs {
		if err := pub.Publish(ctx, id, eventType, payload); err != nil {
			pkglogger.GetLogger().Warn().
				Err(err).
				Str("event", eventType).
				Str("user_id", id).
				Msg("collaboration broadcast failed")
		}
	}
}
