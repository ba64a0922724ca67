package notify

import (
	"context"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const broadcastBuffer = 256

type envelope struct {
	userID  int64
	payload []byte
}

// Hub tracks open live sessions per user and fans incoming Pub/Sub payloads
// out to them. One hub runs per service instance.
type Hub struct {
	log *zap.Logger
	rdb *redis.Client

	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
}

func NewHub(log *zap.Logger, rdb *redis.Client) *Hub {
	return &Hub{
		log:        log,
		rdb:        rdb,
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, broadcastBuffer),
	}
}

func (h *Hub) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pubsub := h.rdb.PSubscribe(ctx, userChannelPattern)

	defer func() {
		if err := pubsub.Close(); err != nil {
			h.log.Warn("Failed to close pubsub", zap.Error(err))
		}
	}()

	go h.pump(ctx, pubsub.Channel())

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Notification hub stopped")

			return
		case client := <-h.register:
			if _, ok := h.clients[client.userID]; !ok {
				h.clients[client.userID] = make(map[*Client]bool)
			}

			h.clients[client.userID][client] = true
			h.log.Debug("Live session registered", zap.Int64("user_id", client.userID))
		case client := <-h.unregister:
			if sessions, ok := h.clients[client.userID]; ok {
				if _, exists := sessions[client]; exists {
					delete(sessions, client)
					close(client.send)
				}

				if len(sessions) == 0 {
					delete(h.clients, client.userID)
				}
			}
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// pump moves Pub/Sub messages onto the hub loop.
func (h *Hub) pump(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			userID, err := parseUserChannel(msg.Channel)
			if err != nil {
				h.log.Warn("Unexpected pubsub channel", zap.String("channel", msg.Channel), zap.Error(err))

				continue
			}

			h.broadcast <- envelope{userID: userID, payload: []byte(msg.Payload)}
		}
	}
}

func (h *Hub) deliver(env envelope) {
	sessions, ok := h.clients[env.userID]
	if !ok {
		// Receiver has no live session here, nothing to do.
		return
	}

	for client := range sessions {
		select {
		case client.send <- env.payload:
		default:
			// Slow consumer, drop the session.
			close(client.send)
			delete(sessions, client)
		}
	}
}

func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

func parseUserChannel(channel string) (int64, error) {
	raw := strings.TrimPrefix(channel, userChannelPrefix)

	return strconv.ParseInt(raw, 10, 64)
}
