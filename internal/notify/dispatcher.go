package notify

import (
	"context"

	"github.com/recipeinbox/backend/internal/domain"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Dispatcher fans a notification out to every configured channel concurrently.
// Failures are logged and swallowed: by the time it runs the triggering write is durable.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher composes the given channels
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Dispatch sends n to recipient on every channel and waits for all of them
func (d *Dispatcher) Dispatch(ctx context.Context, recipient *domain.User, n *Notification) {
	var g errgroup.Group
	for _, ch := range d.channels {
		ch := ch
		g.Go(func() error {
			if err := ch.Send(ctx, recipient, n); err != nil {
				pkglogger.GetLogger().Warn().
					Err(err).
					Str("channel", ch.Name()).
					Str("event", n.Type).
					Str("user_id", recipient.ID).
					Msg("notification delivery failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

// NotifyMessage dispatches messages:new for a freshly created, hydrated message
func (d *Dispatcher) NotifyMessage(ctx context.Context, recipient *domain.User, msg *domain.Message) {
	d.Dispatch(ctx, recipient, NewMessageNotification(msg))
}

// NotifyJobStatus dispatches "<job>:<status>" to the job's owner; unknown statuses are ignored
func (d *Dispatcher) NotifyJobStatus(ctx context.Context, user *domain.User, job string, status JobStatus, reason string) {
	n, ok := NewJobStatusNotification(job, status, reason)
	if !ok {
		return
	}
	d.Dispatch(ctx, user, n)
}
