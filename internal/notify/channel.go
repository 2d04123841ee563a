package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/pkg/push"
	"golang.org/x/sync/errgroup"
)

// Channel is one independent delivery strategy. Send is best effort:
// the returned error is only reported, never retried.
type Channel interface {
	Name() string
	Send(ctx context.Context, recipient *domain.User, n *Notification) error
}

// PushSender delivers a data message to a single device token
type PushSender interface {
	Send(ctx context.Context, token string, data map[string]string) error
}

// TokenPruner forgets device tokens the provider reported as unregistered
type TokenPruner interface {
	DeleteTokens(ctx context.Context, tokens []string) error
}

// PushConfig tunes push fan-out
type PushConfig struct {
	TokenTimeout   time.Duration
	MaxConcurrency int
}

// PushChannel sends a notification to every registered device of the recipient
type PushChannel struct {
	sender PushSender
	pruner TokenPruner
	config PushConfig
}

// NewPushChannel constructor. pruner may be nil.
func NewPushChannel(sender PushSender, pruner TokenPruner, cfg PushConfig) *PushChannel {
	if cfg.TokenTimeout <= 0 {
		cfg.TokenTimeout = 5 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	return &PushChannel{sender: sender, pruner: pruner, config: cfg}
}

func (c *PushChannel) Name() string { return "push" }

// TokenError reports the failure of one device
type TokenError struct {
	Err   error
	Token string
}

func (e *TokenError) Error() string { return fmt.Sprintf("token %s: %v", mask(e.Token), e.Err) }
func (e *TokenError) Unwrap() error { return e.Err }

// Send delivers to each token independently. Every token gets its own timeout so an
// unreachable device cannot hold up the others; the joined per-token errors are returned.
func (c *PushChannel) Send(ctx context.Context, recipient *domain.User, n *Notification) error {
	tokens := recipient.Tokens()
	if len(tokens) == 0 {
		return nil
	}

	encoded, err := json.Marshal(n.pushPayload())
	if err != nil {
		return err
	}
	data := map[string]string{
		"type":    n.Type,
		"message": string(encoded),
	}

	var (
		mu     sync.Mutex
		errs   []error
		pruned []string
	)

	var g errgroup.Group
	g.SetLimit(c.config.MaxConcurrency)
	for _, token := range tokens {
		token := token
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, c.config.TokenTimeout)
			defer cancel()

			err := c.sender.Send(tctx, token, data)
			deliveriesTotal.WithLabelValues(c.Name(), result(err)).Inc()
			if err == nil {
				return nil
			}

			mu.Lock()
			errs = append(errs, &TokenError{Token: token, Err: err})
			if errors.Is(err, push.ErrUnregistered) {
				pruned = append(pruned, token)
			}
			mu.Unlock()
			// never abort the batch
			return nil
		})
	}
	_ = g.Wait()

	if len(pruned) > 0 && c.pruner != nil {
		if err := c.pruner.DeleteTokens(ctx, pruned); err != nil {
			errs = append(errs, fmt.Errorf("prune tokens: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Publisher publishes an event on a topic keyed by user id
type Publisher interface {
	Publish(ctx context.Context, userID, eventType string, payload interface{}) error
}

// BroadcastChannel publishes to the recipient's live connections
type BroadcastChannel struct {
	publisher Publisher
}

// NewBroadcastChannel constructor
func NewBroadcastChannel(publisher Publisher) *BroadcastChannel {
	return &BroadcastChannel{publisher: publisher}
}

func (c *BroadcastChannel) Name() string { return "broadcast" }

// Send publishes the untrimmed payload
func (c *BroadcastChannel) Send(ctx context.Context, recipient *domain.User, n *Notification) error {
	err := c.publisher.Publish(ctx, recipient.ID, n.Type, n.Payload)
	deliveriesTotal.WithLabelValues(c.Name(), result(err)).Inc()
	return err
}

func mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
