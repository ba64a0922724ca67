package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"revjobs-messaging/internal/model"
)

const (
	userChannelPrefix  = "messages:user:"
	userChannelPattern = userChannelPrefix + "*"
)

func userChannel(userID int64) string {
	return fmt.Sprintf("%s%d", userChannelPrefix, userID)
}

// RedisNotifier delivers a message payload to a user's live sessions by
// publishing it on a per-user Pub/Sub channel. Every hub instance that holds
// a connection for that user picks it up, so delivery works across service
// replicas.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID int64, payload *model.MessageDTO) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	if err := n.rdb.Publish(ctx, userChannel(userID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
