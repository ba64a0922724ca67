package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"revjobs-messaging/internal/model"
	"revjobs-messaging/internal/repository"
)

const messageEventsTopic = "message-events"

type MessageRepository interface {
	Begin(ctx context.Context) (pgx.Tx, error)

	Save(ctx context.Context, ext repository.RepoExtension, message *model.Message) error
	SaveAll(ctx context.Context, ext repository.RepoExtension, messages []*model.Message) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id string) (*model.Message, error)
	SelectConversation(ctx context.Context, ext repository.RepoExtension, userA, userB int64) ([]*model.Message, error)
	SelectByParticipant(ctx context.Context, ext repository.RepoExtension, userID int64) ([]*model.Message, error)
	SelectUnreadByReceiver(ctx context.Context, ext repository.RepoExtension, userID int64) ([]*model.Message, error)
	CountUnreadByReceiver(ctx context.Context, ext repository.RepoExtension, userID int64) (int64, error)
}

type OutboxRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, message model.OutboxMessage) error
}

// Notifier pushes a transfer payload to every live session of a user.
// Delivery failures never fail the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID int64, payload *model.MessageDTO) error
}

type SearchRepository interface {
	Index(ctx context.Context, message *model.Message) error
	Search(ctx context.Context, userID int64, query string) ([]*model.Message, error)
}

type MessageService struct {
	log        *zap.Logger
	repo       MessageRepository
	outboxRepo OutboxRepository
	notifier   Notifier
	search     SearchRepository
}

// NewMessageService wires the message store, the event outbox and the
// notification channel. search may be nil when mirroring into the search
// index is disabled.
func NewMessageService(
	log *zap.Logger,
	repo MessageRepository,
	outboxRepo OutboxRepository,
	notifier Notifier,
	search SearchRepository,
) *MessageService {
	return &MessageService{
		log:        log,
		repo:       repo,
		outboxRepo: outboxRepo,
		notifier:   notifier,
		search:     search,
	}
}

// populateDefaults fills the fields a caller may omit, immediately before
// the record is persisted for the first time. sentAt is never recomputed
// once set. This runs as an explicit step in the save path, there is no
// lifecycle hook on the store.
func populateDefaults(message *model.Message) {
	if message.SentAt.IsZero() {
		message.SentAt = model.NewTimestamp(time.Now().UTC())
	}
	// isRead needs no branch: an omitted flag is already false.
}

// SendMessage persists the message together with a message.sent outbox
// event, then pushes the transfer payload to the receiver's live sessions.
// The push and the search-index write are fire-and-forget.
func (s *MessageService) SendMessage(ctx context.Context, req *model.MessageCreateRequest) (message *model.Message, err error) {
	message = &model.Message{
		SenderID:      req.SenderID,
		ReceiverID:    req.ReceiverID,
		Content:       req.Content,
		ApplicationID: req.ApplicationID,
	}

	if req.IsRead != nil {
		message.IsRead = *req.IsRead
	}

	if req.SentAt != nil {
		message.SentAt = model.NewTimestamp(req.SentAt.UTC())
	}

	populateDefaults(message)

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rErr := tx.Rollback(ctx); rErr != nil {
				err = fmt.Errorf("%w, failed to rollback transaction: %w", err, rErr)
			}
		}
	}()

	if err := s.repo.Save(ctx, tx, message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	event := model.MessageSentEvent{
		Type:       model.EventTypeMessageSent,
		Message:    message.ToDTO(),
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message event: %w", err)
	}

	if err := s.outboxRepo.InsertMessage(ctx, tx, model.OutboxMessage{
		ID:      uuid.New(),
		Topic:   messageEventsTopic,
		Payload: payload,
	}); err != nil {
		return nil, fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if nErr := s.notifier.Notify(ctx, message.ReceiverID, message.ToDTO()); nErr != nil {
		s.log.Warn("Failed to notify receiver",
			zap.Int64("receiver_id", message.ReceiverID),
			zap.String("message_id", message.ID),
			zap.Error(nErr),
		)
	}

	s.indexMessage(ctx, message)

	return message, nil
}

// GetConversation returns the full bidirectional conversation between the
// two users, oldest first. Symmetric in its arguments.
func (s *MessageService) GetConversation(ctx context.Context, userA, userB int64) ([]*model.Message, error) {
	messages, err := s.repo.SelectConversation(ctx, nil, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return messages, nil
}

// GetUserMessages returns every message the user sent or received, newest
// first.
func (s *MessageService) GetUserMessages(ctx context.Context, userID int64) ([]*model.Message, error) {
	messages, err := s.repo.SelectByParticipant(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user messages: %w", err)
	}

	return messages, nil
}

func (s *MessageService) GetUnreadMessages(ctx context.Context, userID int64) ([]*model.Message, error) {
	messages, err := s.repo.SelectUnreadByReceiver(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread messages: %w", err)
	}

	return messages, nil
}

func (s *MessageService) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.repo.CountUnreadByReceiver(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// MarkAsRead flips the read flag of one message. The transition is one-way
// and idempotent.
func (s *MessageService) MarkAsRead(ctx context.Context, id string) (*model.Message, error) {
	message, err := s.repo.SelectByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}

	message.IsRead = true

	if err := s.repo.Save(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return message, nil
}

// MarkConversationAsRead marks every unread message addressed to userID as
// read. The partner id deliberately does not narrow the lookup, matching
// how clients use this call when opening a conversation; it is kept for
// the log.
func (s *MessageService) MarkConversationAsRead(ctx context.Context, userID, otherUserID int64) error {
	messages, err := s.repo.SelectUnreadByReceiver(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to load unread messages: %w", err)
	}

	if len(messages) == 0 {
		return nil
	}

	for _, message := range messages {
		message.IsRead = true
	}

	if err := s.repo.SaveAll(ctx, nil, messages); err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}

	s.log.Debug("Conversation marked as read",
		zap.Int64("user_id", userID),
		zap.Int64("other_user_id", otherUserID),
		zap.Int("count", len(messages)),
	)

	return nil
}

// SearchMessages runs a full-text query over the user's conversations.
func (s *MessageService) SearchMessages(ctx context.Context, userID int64, query string) ([]*model.Message, error) {
	if s.search == nil {
		return nil, nil
	}

	messages, err := s.search.Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	return messages, nil
}

func (s *MessageService) indexMessage(ctx context.Context, message *model.Message) {
	if s.search == nil {
		return
	}

	if err := s.search.Index(ctx, message); err != nil {
		s.log.Warn("Failed to index message",
			zap.String("message_id", message.ID),
			zap.Error(err),
		)
	}
}
