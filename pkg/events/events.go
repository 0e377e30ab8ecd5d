package events

import "time"

// Event defines the contract for all system events published to the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SUBSCRIPTION_ACTIVATED").
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

const (
	EventSubscriptionCreated   = "SUBSCRIPTION_CREATED"
	EventSubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	EventSubscriptionPastDue   = "SUBSCRIPTION_PAST_DUE"
	EventSubscriptionCancelled = "SUBSCRIPTION_CANCELLED"
	EventPaymentRecorded       = "PAYMENT_RECORDED"
	EventUsageReset            = "USAGE_RESET"
)

func NewSubscriptionEvent(eventType string, subscriptionId string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["subscription_id"] = subscriptionId
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
