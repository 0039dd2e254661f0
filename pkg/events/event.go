package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "dream.interpreted").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event constructors

func NewDreamCreated(dreamId, userId uuid.UUID) Event {
	return BaseEvent{
		Type: "dream.created",
		Data: map[string]interface{}{
			"dream_id": dreamId.String(),
			"user_id":  userId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewDreamInterpreted(dreamId, userId uuid.UUID, mainSymbol string, fromCache, isFallback bool) Event {
	return BaseEvent{
		Type: "dream.interpreted",
		Data: map[string]interface{}{
			"dream_id":    dreamId.String(),
			"user_id":     userId.String(),
			"main_symbol": mainSymbol,
			"from_cache":  fromCache,
			"is_fallback": isFallback,
		},
		OccurredAt: time.Now(),
	}
}

func NewDreamDeleted(dreamId, userId uuid.UUID) Event {
	return BaseEvent{
		Type: "dream.deleted",
		Data: map[string]interface{}{
			"dream_id": dreamId.String(),
			"user_id":  userId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionActivated(userId uuid.UUID, plan string, periodEnd time.Time) Event {
	return BaseEvent{
		Type: "subscription.activated",
		Data: map[string]interface{}{
			"user_id":    userId.String(),
			"plan":       plan,
			"period_end": periodEnd.Format(time.RFC3339),
		},
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionExpired(userId uuid.UUID, plan string) Event {
	return BaseEvent{
		Type: "subscription.expired",
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"plan":    plan,
		},
		OccurredAt: time.Now(),
	}
}
