package notifications

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes chat events into Redis channels. With a nil client every
// publish is a no-op so single-process deployments work without Redis.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishGroupMessage publishes a chat message to a group channel.
func (n *Notifier) PublishGroupMessage(ctx context.Context, groupID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, GroupChannel(groupID), payload).Err()
}

// StartChatSubscriber subscribes to the chat:group:* pattern and calls
// onMessage for each incoming message until ctx is cancelled.
func (n *Notifier) StartChatSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "chat:group:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in ChatSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// GroupChannel derives the Redis channel name for a group.
func GroupChannel(groupID uint) string {
	return "chat:group:" + strconv.FormatUint(uint64(groupID), 10)
}

// ParseGroupChannel extracts the group ID from a channel name.
func ParseGroupChannel(channel string) (uint, error) {
	var groupID uint
	if _, err := fmt.Sscanf(channel, "chat:group:%d", &groupID); err != nil {
		return 0, fmt.Errorf("invalid group channel %q: %w", channel, err)
	}
	return groupID, nil
}
