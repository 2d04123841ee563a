package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
)

// defaultNotifyTimeout bounds the asynchronous notification of a new message
const defaultNotifyTimeout = 30 * time.Second

// MessageNotifier delivers a freshly created message to its recipient
type MessageNotifier interface {
	NotifyMessage(ctx context.Context, recipient *domain.User, msg *domain.Message)
}

// MessageService business logic for direct messages
type MessageService interface {
	CreateMessage(ctx context.Context, fromUserID string, req *domain.CreateMessageRequest) (*domain.MessageResponse, error)
	ListThreads(ctx context.Context, userID string, light bool) ([]*domain.ThreadResponse, error)
	GetThread(ctx context.Context, userID, otherUserID string) ([]*domain.MessageResponse, error)
}

type messageService struct {
	tx            repository.Transactor
	messageRepo   repository.MessageRepository
	userRepo      repository.UserRepository
	shareSvc      RecipeShareService
	notifier      MessageNotifier
	notifyTimeout time.Duration
}

// NewMessageService creates a new MessageService. notifier may be nil.
func NewMessageService(
	tx repository.Transactor,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	shareSvc RecipeShareService,
	notifier MessageNotifier,
) MessageService {
	return &messageService{
		tx:            tx,
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		shareSvc:      shareSvc,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// CreateMessage stores a message, cloning the shared recipe into the recipient's inbox
// in the same transaction, and notifies the recipient once committed.
func (s *messageService) CreateMessage(ctx context.Context, fromUserID string, req *domain.CreateMessageRequest) (*domain.MessageResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.To); err != nil {
		return nil, err
	}
	if req.Body == "" && req.RecipeID == "" {
		return nil, common.ErrMessageEmpty
	}

	msg := &domain.Message{
		FromUserID: fromUserID,
		ToUserID:   req.To,
		Body:       req.Body,
	}

	var clone *domain.Recipe
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if req.RecipeID != "" {
			var err error
			clone, err = s.shareSvc.ShareRecipe(ctx, req.RecipeID, fromUserID, req.To)
			if err != nil {
				return err
			}
			originalID := req.RecipeID
			msg.RecipeID = &clone.ID
			msg.OriginalRecipeID = &originalID
		}
		return s.messageRepo.Create(ctx, msg)
	})
	if err != nil {
		s.shareSvc.DiscardClone(ctx, clone)
		return nil, err
	}

	hydratedMsg, err := s.messageRepo.FindHydrated(ctx, msg.ID)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("message_id", msg.ID).Msg("failed to hydrate created message")
		hydratedMsg = msg
	}

	s.notify(hydratedMsg)

	return hydratedMsg.ToResponse(fromUserID), nil
}

// notify runs outside the request lifecycle; the message is already durable
func (s *messageService) notify(msg *domain.Message) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		recipient, err := s.userRepo.FindWithPushTokens(ctx, msg.ToUserID)
		if err != nil {
			pkglogger.GetLogger().Error().Err(err).
				Str("message_id", msg.ID).
				Str("user_id", msg.ToUserID).
				Msg("failed to load message recipient for notification")
			return
		}
		s.notifier.NotifyMessage(ctx, recipient, msg)
	}()
}

// ListThreads groups the user's messages by counterpart, most recently active thread first
func (s *messageService) ListThreads(ctx context.Context, userID string, light bool) ([]*domain.ThreadResponse, error) {
	messages, err := s.messageRepo.FindForUser(ctx, userID, !light)
	if err != nil {
		return nil, err
	}

	byCounterpart := make(map[string]*domain.ThreadResponse)
	counterpartIDs := make([]string, 0)
	for _, m := range messages {
		otherID := m.CounterpartID(userID)
		thread, ok := byCounterpart[otherID]
		if !ok {
			thread = &domain.ThreadResponse{}
			byCounterpart[otherID] = thread
			counterpartIDs = append(counterpartIDs, otherID)
		}
		thread.MessageCount++
		if m.CreatedAt.After(thread.LastMessageAt) {
			thread.LastMessageAt = m.CreatedAt
		}
		if !light {
			thread.Messages = append(thread.Messages, m.ToResponse(userID))
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, err
	}

	threads := make([]*domain.ThreadResponse, 0, len(counterpartIDs))
	for _, id := range counterpartIDs {
		thread := byCounterpart[id]
		if u, ok := users[id]; ok {
			thread.OtherUser = u.Summary()
		} else {
			thread.OtherUser = &domain.UserSummary{ID: id}
		}
		threads = append(threads, thread)
	}

	sort.SliceStable(threads, func(i, j int) bool {
		a, b := threads[i], threads[j]
		if !a.LastMessageAt.Equal(b.LastMessageAt) {
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		return a.OtherUser.ID < b.OtherUser.ID
	})

	return threads, nil
}

// GetThread returns the conversation with one counterpart, oldest first.
// An unknown or malformed counterpart yields an empty thread.
func (s *messageService) GetThread(ctx context.Context, userID, otherUserID string) ([]*domain.MessageResponse, error) {
	if otherUserID == "" {
		return nil, common.ErrMissingOtherUser
	}
	result := make([]*domain.MessageResponse, 0)
	if _, err := uuid.Parse(otherUserID); err != nil {
		return result, nil
	}

	messages, err := s.messageRepo.FindBetween(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		result = append(result, m.ToResponse(userID))
	}
	return result, nil
}
