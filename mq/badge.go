package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const badgeChannel = "badge-events"

// BadgeEvent is published whenever a user gains a notification, so every
// running instance can refresh that user's live badge.
type BadgeEvent struct {
	UserID string `json:"user_id"`
}

// Emitter publishes badge events to redis pub/sub. It satisfies
// notify.Badge.
type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

// Publish is fire-and-forget; a failed publish only costs a stale badge.
func (e *Emitter) Publish(ctx context.Context, userID string) {
	data, err := json.Marshal(BadgeEvent{UserID: userID})
	if err != nil {
		log.Printf("mq: failed to marshal badge event: %v", err)
		return
	}
	if err := e.conn.Publish(ctx, badgeChannel, data).Err(); err != nil {
		log.Printf("mq: failed to publish badge event for %s: %v", userID, err)
	}
}

// Subscribe streams badge events until ctx is cancelled. Unparseable
// payloads are logged and skipped.
func Subscribe(ctx context.Context, conn *redis.Client, handle func(BadgeEvent)) {
	sub := conn.Subscribe(ctx, badgeChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event BadgeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("mq: failed to parse badge event: %v", err)
				continue
			}
			handle(event)
		}
	}
}
