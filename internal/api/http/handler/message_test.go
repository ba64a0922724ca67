package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revjobs-messaging/internal/apperrors"
	"revjobs-messaging/internal/model"
)

type fakeMessageService struct {
	messages map[string]*model.Message
	sendErr  error
}

func newFakeMessageService() *fakeMessageService {
	return &fakeMessageService{messages: make(map[string]*model.Message)}
}

func (s *fakeMessageService) SendMessage(_ context.Context, req *model.MessageCreateRequest) (*model.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}

	message := &model.Message{
		ID:            "generated-id",
		SenderID:      req.SenderID,
		ReceiverID:    req.ReceiverID,
		Content:       req.Content,
		SentAt:        model.NewTimestamp(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)),
		ApplicationID: req.ApplicationID,
	}

	if req.IsRead != nil {
		message.IsRead = *req.IsRead
	}
	if req.SentAt != nil {
		message.SentAt = *req.SentAt
	}

	s.messages[message.ID] = message

	return message, nil
}

func (s *fakeMessageService) GetConversation(_ context.Context, userA, userB int64) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range s.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			result = append(result, m)
		}
	}

	return result, nil
}

func (s *fakeMessageService) GetUserMessages(_ context.Context, userID int64) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			result = append(result, m)
		}
	}

	return result, nil
}

func (s *fakeMessageService) GetUnreadMessages(_ context.Context, userID int64) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.IsRead {
			result = append(result, m)
		}
	}

	return result, nil
}

func (s *fakeMessageService) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	messages, err := s.GetUnreadMessages(ctx, userID)
	if err != nil {
		return 0, err
	}

	return int64(len(messages)), nil
}

func (s *fakeMessageService) MarkAsRead(_ context.Context, id string) (*model.Message, error) {
	message, ok := s.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageDoesNotExist
	}

	message.IsRead = true

	return message, nil
}

func (s *fakeMessageService) MarkConversationAsRead(_ context.Context, userID, _ int64) error {
	for _, m := range s.messages {
		if m.ReceiverID == userID {
			m.IsRead = true
		}
	}

	return nil
}

func (s *fakeMessageService) SearchMessages(_ context.Context, _ int64, _ string) ([]*model.Message, error) {
	return nil, nil
}

func newTestRouter(svc MessageService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewMessageHandler(zap.NewNop(), svc)

	router := gin.New()
	g := router.Group("/messages")
	g.POST("", h.SendMessage)
	g.GET("/conversation", h.GetConversation)
	g.PATCH("/conversation/read", h.MarkConversationAsRead)
	g.GET("/user/:user_id", h.GetUserMessages)
	g.GET("/user/:user_id/unread", h.GetUnreadMessages)
	g.GET("/user/:user_id/unread/count", h.GetUnreadCount)
	g.GET("/user/:user_id/search", h.SearchMessages)
	g.PATCH("/:id/read", h.MarkAsRead)

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestSendMessage(t *testing.T) {
	svc := newFakeMessageService()
	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodPost, "/messages", gin.H{
		"senderId":   1,
		"receiverId": 2,
		"content":    "Hello, I saw your application",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    model.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "generated-id", resp.Data.ID)
	assert.Equal(t, int64(1), resp.Data.SenderID)
	assert.Equal(t, int64(2), resp.Data.ReceiverID)
	assert.False(t, resp.Data.IsRead)
	assert.False(t, resp.Data.SentAt.IsZero())
}

func TestSendMessage_InvalidBody(t *testing.T) {
	router := newTestRouter(newFakeMessageService())

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ResponseWithError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestMarkAsRead(t *testing.T) {
	svc := newFakeMessageService()
	svc.messages["m1"] = &model.Message{ID: "m1", SenderID: 1, ReceiverID: 2, SentAt: model.NewTimestamp(time.Now())}

	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodPatch, "/messages/m1/read", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    model.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.True(t, resp.Data.IsRead)
}

func TestMarkAsRead_UnknownID(t *testing.T) {
	router := newTestRouter(newFakeMessageService())

	w := doRequest(t, router, http.MethodPatch, "/messages/invalid123/read", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Message not found"}`, w.Body.String())
}

func TestGetConversation(t *testing.T) {
	svc := newFakeMessageService()
	svc.messages["m1"] = &model.Message{ID: "m1", SenderID: 1, ReceiverID: 2, SentAt: model.NewTimestamp(time.Now())}
	svc.messages["m2"] = &model.Message{ID: "m2", SenderID: 2, ReceiverID: 1, SentAt: model.NewTimestamp(time.Now())}
	svc.messages["m3"] = &model.Message{ID: "m3", SenderID: 1, ReceiverID: 3, SentAt: model.NewTimestamp(time.Now())}

	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodGet, "/messages/conversation?user1Id=1&user2Id=2", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    []model.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
}

func TestGetConversation_MissingParams(t *testing.T) {
	router := newTestRouter(newFakeMessageService())

	w := doRequest(t, router, http.MethodGet, "/messages/conversation?user1Id=1", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnreadCount(t *testing.T) {
	svc := newFakeMessageService()
	svc.messages["m1"] = &model.Message{ID: "m1", SenderID: 2, ReceiverID: 1, SentAt: model.NewTimestamp(time.Now())}
	svc.messages["m2"] = &model.Message{ID: "m2", SenderID: 3, ReceiverID: 1, IsRead: true, SentAt: model.NewTimestamp(time.Now())}

	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodGet, "/messages/user/1/unread/count", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool  `json:"success"`
		Data    int64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Data)
}

func TestMarkConversationAsRead(t *testing.T) {
	svc := newFakeMessageService()
	svc.messages["m1"] = &model.Message{ID: "m1", SenderID: 2, ReceiverID: 1, SentAt: model.NewTimestamp(time.Now())}

	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodPatch, "/messages/conversation/read?userId=1&otherUserId=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Conversation marked as read"}`, w.Body.String())
	assert.True(t, svc.messages["m1"].IsRead)
}

func TestSendThenReadFlow(t *testing.T) {
	svc := newFakeMessageService()
	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodPost, "/messages", gin.H{
		"senderId":   1,
		"receiverId": 2,
		"content":    "are you still hiring?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/messages/user/2/unread", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unread struct {
		Success bool            `json:"success"`
		Data    []model.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unread))
	require.Len(t, unread.Data, 1)

	w = doRequest(t, router, http.MethodPatch, "/messages/"+unread.Data[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/messages/user/2/unread/count", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count struct {
		Success bool  `json:"success"`
		Data    int64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Zero(t, count.Data)
}
