package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketRelayed  EventType = "ticket_relayed"
	EventDeliveryFailed EventType = "delivery_failed"
)

// Event represents a relay outcome emitted by the notification service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketRelayedPayload payload.
type TicketRelayedPayload struct {
	AssignedTo string `json:"assigned_to"`
	Summary    string `json:"summary"`
	Mentioned  bool   `json:"mentioned"`
}

// DeliveryFailedPayload payload.
type DeliveryFailedPayload struct {
	AssignedTo string `json:"assigned_to"`
	Reason     string `json:"reason"`
}
