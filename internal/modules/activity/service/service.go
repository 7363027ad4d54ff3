package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the redis pub/sub channel the dashboard feed listens on.
const Channel = "admin_activity"

const (
	TypeAudit        = "audit"
	TypeRegistration = "registration"
)

type Activity struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	AdminID   uint      `json:"admin_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher fans activity out to connected dashboards. Delivery is best
// effort: failures are logged, never returned.
type Publisher interface {
	Publish(ctx context.Context, activity Activity)
}

type redisPublisher struct {
	redisClient *redis.Client
}

// NewPublisher returns a redis backed publisher, or a no-op one when
// redisClient is nil.
func NewPublisher(redisClient *redis.Client) Publisher {
	if redisClient == nil {
		return nopPublisher{}
	}
	return &redisPublisher{redisClient: redisClient}
}

func (p *redisPublisher) Publish(ctx context.Context, activity Activity) {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(activity)
	if err != nil {
		log.Printf("[activity] failed to encode activity: %v", err)
		return
	}

	if err := p.redisClient.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("[activity] failed to publish activity: %v", err)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Activity) {}
