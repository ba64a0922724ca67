package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"revjobs-messaging/internal/apperrors"
	"revjobs-messaging/internal/model"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Begin opens a transaction on the repository's pool, for callers that
// need the message write and a companion write to land together.
func (r *MessageRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

const saveMessageQuery = `
	INSERT INTO messaging.messages (id, sender_id, receiver_id, content, is_read, sent_at, application_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET content = EXCLUDED.content,
	    is_read = EXCLUDED.is_read
`

// Save inserts or updates one record. The id is assigned here on first
// insert, ids are opaque strings outside this package.
func (r *MessageRepository) Save(ctx context.Context, ext RepoExtension, message *model.Message) error {
	if ext == nil {
		ext = r.db
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	_, err := ext.Exec(ctx, saveMessageQuery,
		message.ID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.IsRead,
		message.SentAt.Time,
		message.ApplicationID,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// SaveAll is the bulk variant of Save, one batch round-trip.
func (r *MessageRepository) SaveAll(ctx context.Context, ext RepoExtension, messages []*model.Message) error {
	if ext == nil {
		ext = r.db
	}

	if len(messages) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for _, message := range messages {
		if message.ID == "" {
			message.ID = uuid.NewString()
		}

		batch.Queue(saveMessageQuery,
			message.ID,
			message.SenderID,
			message.ReceiverID,
			message.Content,
			message.IsRead,
			message.SentAt.Time,
			message.ApplicationID,
		)
	}

	results := ext.SendBatch(ctx, batch)

	for range messages {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to save message batch: %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	return nil
}

func (r *MessageRepository) SelectByID(ctx context.Context, ext RepoExtension, id string) (*model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, sender_id, receiver_id, content, is_read, sent_at, application_id
		FROM messaging.messages
		WHERE id = $1
	`

	var message model.Message

	if err := ext.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Content,
		&message.IsRead,
		&message.SentAt.Time,
		&message.ApplicationID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageDoesNotExist
		}

		return nil, fmt.Errorf("failed to select message by id: %w", err)
	}

	message.SentAt.Time = message.SentAt.Time.UTC()

	return &message, nil
}

// SelectConversation returns every record between the two users in either
// direction, oldest first.
func (r *MessageRepository) SelectConversation(ctx context.Context, ext RepoExtension, userA, userB int64) ([]*model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, sender_id, receiver_id, content, is_read, sent_at, application_id
		FROM messaging.messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY sent_at ASC
	`

	rows, err := ext.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to select conversation: %w", err)
	}

	return scanMessages(rows)
}

// SelectByParticipant returns every record where the user is sender or
// receiver, newest first.
func (r *MessageRepository) SelectByParticipant(ctx context.Context, ext RepoExtension, userID int64) ([]*model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, sender_id, receiver_id, content, is_read, sent_at, application_id
		FROM messaging.messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY sent_at DESC
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages by participant: %w", err)
	}

	return scanMessages(rows)
}

func (r *MessageRepository) SelectUnreadByReceiver(ctx context.Context, ext RepoExtension, userID int64) ([]*model.Message, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, sender_id, receiver_id, content, is_read, sent_at, application_id
		FROM messaging.messages
		WHERE receiver_id = $1 AND is_read = false
		ORDER BY sent_at ASC
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select unread messages: %w", err)
	}

	return scanMessages(rows)
}

func (r *MessageRepository) CountUnreadByReceiver(ctx context.Context, ext RepoExtension, userID int64) (int64, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT COUNT(*)
		FROM messaging.messages
		WHERE receiver_id = $1 AND is_read = false
	`

	var count int64

	if err := ext.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

func scanMessages(rows pgx.Rows) ([]*model.Message, error) {
	defer rows.Close()

	var messages []*model.Message

	for rows.Next() {
		var message model.Message
		if err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.ReceiverID,
			&message.Content,
			&message.IsRead,
			&message.SentAt.Time,
			&message.ApplicationID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		message.SentAt.Time = message.SentAt.Time.UTC()

		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
