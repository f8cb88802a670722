package events

import "time"

// Event represents a domain event that can be published and consumed.
type Event interface {
	// GetType returns the type of the event.
	GetType() string
	// GetTenantID returns the tenant this event is scoped to.
	GetTenantID() string
	// GetTimestamp returns when the event occurred.
	GetTimestamp() time.Time
	// GetPayload returns the event-specific data.
	GetPayload() interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type      string      `json:"type"`
	TenantID  string      `json:"tenantId"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GetType returns the event type.
func (e *BaseEvent) GetType() string {
	return e.Type
}

// GetTenantID returns the tenant id.
func (e *BaseEvent) GetTenantID() string {
	return e.TenantID
}

// GetTimestamp returns the event timestamp.
func (e *BaseEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

// GetPayload returns the event payload.
func (e *BaseEvent) GetPayload() interface{} {
	return e.Payload
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType, tenantID string, payload interface{}) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		TenantID:  tenantID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
