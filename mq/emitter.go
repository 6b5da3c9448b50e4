package mq

import (
	"context"
	"encoding/json"
	"log"

	"tripwallet/rdx"
)

// ItineraryEvent is the change notification published after every store
// write. Subscribers re-query the backing collection when one arrives; the
// event itself carries no record data.
type ItineraryEvent struct {
	Action string `json:"action"` // created, updated, deleted, published
	ItemID string `json:"item_id,omitempty"`
}

// UserChannel is the pub/sub channel for one user's personal items.
func UserChannel(ownerID string) string {
	return "itin:user:" + ownerID
}

// SharedChannel is the pub/sub channel for one published snapshot.
func SharedChannel(sharedID string) string {
	return "itin:shared:" + sharedID
}

// Emit publishes a change event to Redis. Failures are logged and dropped;
// the durable write has already happened and live viewers simply miss one
// refresh.
func Emit(ctx context.Context, channel string, ev ItineraryEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish to %s: %v", channel, err)
	}
}

// Subscribe listens on a change channel until ctx is cancelled or the
// returned stop function is called. Malformed payloads are skipped.
func Subscribe(ctx context.Context, channel string) (<-chan ItineraryEvent, func()) {
	sub := rdx.Conn.Subscribe(ctx, channel)
	out := make(chan ItineraryEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev ItineraryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[Subscribe] bad payload on %s: %v", channel, err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		if err := sub.Close(); err != nil {
			log.Printf("[Subscribe] close %s: %v", channel, err)
		}
	}
	return out, stop
}
