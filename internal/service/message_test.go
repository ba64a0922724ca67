package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revjobs-messaging/internal/apperrors"
	"revjobs-messaging/internal/model"
	"revjobs-messaging/internal/repository"
)

// fakeTx satisfies pgx.Tx for the send path, only Commit and Rollback
// carry state.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(_ context.Context) error {
	t.rolledBack = true
	return nil
}
func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakeMessageRepo struct {
	messages map[string]*model.Message
	nextID   int

	tx           *fakeTx
	saveErr      error
	saveAllCalls int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[string]*model.Message),
		tx:       &fakeTx{},
	}
}

func (r *fakeMessageRepo) Begin(_ context.Context) (pgx.Tx, error) {
	return r.tx, nil
}

func (r *fakeMessageRepo) Save(_ context.Context, _ repository.RepoExtension, message *model.Message) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	if message.ID == "" {
		r.nextID++
		message.ID = fmt.Sprintf("msg-%d", r.nextID)
	}

	stored := *message
	r.messages[message.ID] = &stored

	return nil
}

func (r *fakeMessageRepo) SaveAll(ctx context.Context, ext repository.RepoExtension, messages []*model.Message) error {
	r.saveAllCalls++

	for _, message := range messages {
		if err := r.Save(ctx, ext, message); err != nil {
			return err
		}
	}

	return nil
}

func (r *fakeMessageRepo) SelectByID(_ context.Context, _ repository.RepoExtension, id string) (*model.Message, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageDoesNotExist
	}

	copied := *message

	return &copied, nil
}

// The fake mirrors the store's ordering contract: conversations come back
// oldest first, participant listings newest first.
func (r *fakeMessageRepo) SelectConversation(_ context.Context, _ repository.RepoExtension, userA, userB int64) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			copied := *m
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SentAt.Before(result[j].SentAt.Time)
	})

	return result, nil
}

func (r *fakeMessageRepo) SelectByParticipant(_ context.Context, _ repository.RepoExtension, userID int64) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			copied := *m
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt.Time)
	})

	return result, nil
}

func (r *fakeMessageRepo) SelectUnreadByReceiver(_ context.Context, _ repository.RepoExtension, userID int64) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range r.messages {
		if m.ReceiverID == userID && !m.IsRead {
			copied := *m
			result = append(result, &copied)
		}
	}

	return result, nil
}

func (r *fakeMessageRepo) CountUnreadByReceiver(ctx context.Context, ext repository.RepoExtension, userID int64) (int64, error) {
	messages, err := r.SelectUnreadByReceiver(ctx, ext, userID)
	if err != nil {
		return 0, err
	}

	return int64(len(messages)), nil
}

type fakeOutboxRepo struct {
	inserted []model.OutboxMessage
}

func (r *fakeOutboxRepo) InsertMessage(_ context.Context, _ repository.RepoExtension, message model.OutboxMessage) error {
	r.inserted = append(r.inserted, message)
	return nil
}

type fakeNotifier struct {
	notified []struct {
		userID  int64
		payload *model.MessageDTO
	}
	err error
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, payload *model.MessageDTO) error {
	n.notified = append(n.notified, struct {
		userID  int64
		payload *model.MessageDTO
	}{userID, payload})

	return n.err
}

func newTestService(repo *fakeMessageRepo, outboxRepo *fakeOutboxRepo, notifier *fakeNotifier) *MessageService {
	return NewMessageService(zap.NewNop(), repo, outboxRepo, notifier, nil)
}

func TestSendMessage_PopulatesDefaults(t *testing.T) {
	repo := newFakeMessageRepo()
	outboxRepo := &fakeOutboxRepo{}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, outboxRepo, notifier)

	before := time.Now().UTC()

	message, err := svc.SendMessage(context.Background(), &model.MessageCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, message.ID)
	assert.False(t, message.IsRead)
	assert.False(t, message.SentAt.IsZero())
	assert.False(t, message.SentAt.Before(before))
	assert.False(t, message.SentAt.After(time.Now().UTC()))

	assert.True(t, repo.tx.committed)
	assert.False(t, repo.tx.rolledBack)
}

func TestSendMessage_KeepsProvidedFields(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	isRead := true
	sentAt := model.NewTimestamp(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))

	message, err := svc.SendMessage(context.Background(), &model.MessageCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
		IsRead:     &isRead,
		SentAt:     &sentAt,
	})
	require.NoError(t, err)

	assert.True(t, message.IsRead)
	assert.True(t, message.SentAt.Equal(sentAt.Time))
}

func TestSendMessage_NotifiesReceiverOnce(t *testing.T) {
	repo := newFakeMessageRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeOutboxRepo{}, notifier)

	message, err := svc.SendMessage(context.Background(), &model.MessageCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
	})
	require.NoError(t, err)

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, int64(2), notifier.notified[0].userID)
	assert.Equal(t, message.ID, notifier.notified[0].payload.ID)
	assert.Equal(t, "hello", notifier.notified[0].payload.Content)
}

func TestSendMessage_NotifyFailureDoesNotFailTheSend(t *testing.T) {
	repo := newFakeMessageRepo()
	notifier := &fakeNotifier{err: errors.New("redis down")}
	svc := newTestService(repo, &fakeOutboxRepo{}, notifier)

	message, err := svc.SendMessage(context.Background(), &model.MessageCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
	})
	require.NoError(t, err)

	_, ok := repo.messages[message.ID]
	assert.True(t, ok, "message must be persisted even when the push fails")
}

func TestSendMessage_WritesOutboxEvent(t *testing.T) {
	repo := newFakeMessageRepo()
	outboxRepo := &fakeOutboxRepo{}
	svc := newTestService(repo, outboxRepo, &fakeNotifier{})

	message, err := svc.SendMessage(context.Background(), &model.MessageCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
	})
	require.NoError(t, err)

	require.Len(t, outboxRepo.inserted, 1)
	assert.Equal(t, "message-events", outboxRepo.inserted[0].Topic)

	var event model.MessageSentEvent
	require.NoError(t, json.Unmarshal(outboxRepo.inserted[0].Payload, &event))

	assert.Equal(t, model.EventTypeMessageSent, event.Type)
	require.NotNil(t, event.Message)
	assert.Equal(t, message.ID, event.Message.ID)
}

func TestMarkAsRead(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	repo.messages["m1"] = &model.Message{
		ID:         "m1",
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
	}

	message, err := svc.MarkAsRead(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, message.IsRead)
	assert.True(t, repo.messages["m1"].IsRead)

	// One-way transition, the second call is a no-op.
	message, err = svc.MarkAsRead(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, message.IsRead)
}

func TestMarkAsRead_UnknownID(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	_, err := svc.MarkAsRead(context.Background(), "invalid123")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMessageDoesNotExist)
	assert.Empty(t, repo.messages)
}

func TestMarkConversationAsRead(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	repo.messages["m1"] = &model.Message{ID: "m1", SenderID: 2, ReceiverID: 1}
	repo.messages["m2"] = &model.Message{ID: "m2", SenderID: 3, ReceiverID: 1}
	repo.messages["m3"] = &model.Message{ID: "m3", SenderID: 1, ReceiverID: 2}

	require.NoError(t, svc.MarkConversationAsRead(context.Background(), 1, 2))

	assert.True(t, repo.messages["m1"].IsRead)
	assert.True(t, repo.messages["m2"].IsRead)
	assert.False(t, repo.messages["m3"].IsRead, "outgoing messages stay untouched")
}

func TestMarkConversationAsRead_NothingUnread(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	require.NoError(t, svc.MarkConversationAsRead(context.Background(), 1, 2))

	assert.Zero(t, repo.saveAllCalls)
}

func TestGetUnreadCount(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	repo.messages["m1"] = &model.Message{ID: "m1", SenderID: 2, ReceiverID: 1}
	repo.messages["m2"] = &model.Message{ID: "m2", SenderID: 3, ReceiverID: 1, IsRead: true}

	count, err := svc.GetUnreadCount(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
}

func TestGetConversation_Symmetric(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	repo.messages["m1"] = &model.Message{ID: "m1", SenderID: 1, ReceiverID: 2}
	repo.messages["m2"] = &model.Message{ID: "m2", SenderID: 2, ReceiverID: 1}
	repo.messages["m3"] = &model.Message{ID: "m3", SenderID: 1, ReceiverID: 3}

	forward, err := svc.GetConversation(context.Background(), 1, 2)
	require.NoError(t, err)
	backward, err := svc.GetConversation(context.Background(), 2, 1)
	require.NoError(t, err)

	assert.Len(t, forward, 2)
	assert.Len(t, backward, 2)
}

func TestGetConversation_OldestFirst(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	// Seeded out of order on purpose.
	repo.messages["m2"] = &model.Message{ID: "m2", SenderID: 2, ReceiverID: 1, SentAt: model.NewTimestamp(base.Add(time.Minute))}
	repo.messages["m3"] = &model.Message{ID: "m3", SenderID: 1, ReceiverID: 2, SentAt: model.NewTimestamp(base.Add(2 * time.Minute))}
	repo.messages["m1"] = &model.Message{ID: "m1", SenderID: 1, ReceiverID: 2, SentAt: model.NewTimestamp(base)}

	messages, err := svc.GetConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, "m3", messages[2].ID)
}

func TestGetUserMessages_NewestFirst(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestService(repo, &fakeOutboxRepo{}, &fakeNotifier{})

	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	repo.messages["m1"] = &model.Message{ID: "m1", SenderID: 1, ReceiverID: 2, SentAt: model.NewTimestamp(base)}
	repo.messages["m3"] = &model.Message{ID: "m3", SenderID: 3, ReceiverID: 1, SentAt: model.NewTimestamp(base.Add(2 * time.Minute))}
	repo.messages["m2"] = &model.Message{ID: "m2", SenderID: 2, ReceiverID: 1, SentAt: model.NewTimestamp(base.Add(time.Minute))}

	messages, err := svc.GetUserMessages(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, messages, 3)
	assert.Equal(t, "m3", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, "m1", messages[2].ID)
}

func TestSearchMessages_DisabledIndex(t *testing.T) {
	svc := newTestService(newFakeMessageRepo(), &fakeOutboxRepo{}, &fakeNotifier{})

	messages, err := svc.SearchMessages(context.Background(), 1, "hello")

	require.NoError(t, err)
	assert.Nil(t, messages)
}
