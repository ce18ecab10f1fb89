package users

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
)

// Event types published on the events topic.
const (
	EventCreated = "user.created"
	EventUpdated = "user.updated"
	EventDeleted = "user.deleted"
)

// Event is the JSON payload of a user change message.
type Event struct {
	Type       string    `json:"type"`
	User       User      `json:"user"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher is satisfied by *kafka.Producer and *rabbit.Publisher.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte, headers map[string]string) error
}

// Notifier publishes user change events. A failed publish is logged and
// never fails the request that caused it.
type Notifier struct {
	publisher Publisher
	headers   func(ctx context.Context) map[string]string
	log       logger.Logger
	now       func() time.Time
}

// NewNotifier returns a Notifier. headers, when non-nil, supplies extra
// message headers for the request context, such as trace propagation.
func NewNotifier(publisher Publisher, headers func(ctx context.Context) map[string]string, log logger.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		headers:   headers,
		log:       log,
		now:       time.Now,
	}
}

// Notify publishes an event of type eventType for u.
func (n *Notifier) Notify(ctx context.Context, eventType string, u User) {
	if n == nil {
		return
	}

	payload, err := json.Marshal(Event{Type: eventType, User: u, OccurredAt: n.now().UTC()})
	if err != nil {
		n.log.ErrorWithContext(ctx, "Failed to encode user event", err, nil)
		return
	}

	headers := map[string]string{"event-type": eventType}
	if n.headers != nil {
		for k, v := range n.headers(ctx) {
			headers[k] = v
		}
	}

	if err := n.publisher.Publish(ctx, []byte(strconv.FormatInt(u.ID, 10)), payload, headers); err != nil {
		n.log.WarnWithContext(ctx, "Failed to publish user event", err, map[string]interface{}{
			"event":   eventType,
			"user_id": u.ID,
		})
	}
}
