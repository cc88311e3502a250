package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"relay/internal/models"
)

// Channel carries room lifecycle events for interested services
// (dashboards, session history).
const Channel = "relay:rooms"

// Publisher emits room lifecycle events to Redis. Publish-only: the relay
// never subscribes, and routing never depends on a subscriber being present.
type Publisher struct {
	rdb        *redis.Client
	instanceID string
}

func NewPublisher(redisAddr string) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &Publisher{rdb: rdb, instanceID: uuid.NewString()}
}

// InstanceID identifies this relay process in published events.
func (p *Publisher) InstanceID() string { return p.instanceID }

func (p *Publisher) PublishRoomEvent(event models.RoomEvent) error {
	event.InstanceID = p.instanceID
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}
	return p.rdb.Publish(context.Background(), Channel, data).Err()
}

func (p *Publisher) Close() error { return p.rdb.Close() }
