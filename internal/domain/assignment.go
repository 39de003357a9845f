package domain

import "time"

// SentinelAssignee is the placeholder technician used when no category
// mapping matches a ticket. It never carries a mention identity.
const SentinelAssignee = "Needs human input"

// Assignment pairs a technician display name with the chat-platform
// identity used to render an @-mention.
type Assignment struct {
	Technician string
	MentionID  string
	Email      string
}

// IsSentinel reports whether the assignment fell through to the placeholder.
func (a Assignment) IsSentinel() bool {
	return a.Technician == SentinelAssignee
}

// NeedsHumanInput returns the fallback assignment for unmapped categories.
func NeedsHumanInput() Assignment {
	return Assignment{Technician: SentinelAssignee}
}

// AssignmentRecord is the audit row persisted for every processed ticket.
type AssignmentRecord struct {
	ID           string
	TicketID     int64
	TicketNumber string
	Subject      string
	Category     string
	AssignedTo   string
	MentionID    string
	Priority     string
	Status       string
	Relayed      bool
	CreatedAt    time.Time
}
