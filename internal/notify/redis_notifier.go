package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dinperin/simikm-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Channel carries change events between instances behind a load balancer.
const Channel = "simikm:changes"

type redisNotifier struct {
	client *redis.Client
}

// NewRedis returns a notifier that publishes events to the shared Redis
// channel. Every instance's hub subscribes to it, so a change made on one
// instance reaches clients connected to another.
func NewRedis(client *redis.Client) Notifier {
	return &redisNotifier{client: client}
}

func (n *redisNotifier) Changed(table, action string) {
	payload, err := json.Marshal(Event{Table: table, Action: action})
	if err != nil {
		logger.Error("Failed to marshal change event", err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := n.client.Publish(ctx, Channel, payload).Err(); err != nil {
		// Best-effort: the badge refresh is lost, the mutation is not.
		logger.Warn("Failed to publish change event", map[string]interface{}{
			"table":  table,
			"action": action,
			"error":  err.Error(),
		})
	}
}

// Subscribe relays events from the Redis channel into the hub until ctx is
// cancelled. Run in its own goroutine from main.
func Subscribe(ctx context.Context, client *redis.Client, hub Broadcaster) {
	sub := client.Subscribe(ctx, Channel)
	defer sub.Close()

	logger.Info("Subscribed to change event channel", map[string]interface{}{
		"channel": Channel,
	})

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("Dropping malformed change event", map[string]interface{}{
					"payload": msg.Payload,
				})
				continue
			}
			hub.Broadcast(event)
		}
	}
}
