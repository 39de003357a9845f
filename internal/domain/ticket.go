package domain

import (
	"strconv"
	"time"
)

// TicketStatus mirrors the lifecycle states reported by the ticketing API.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "New"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// Ticket is a read-only record fetched from the ticketing API.
type Ticket struct {
	ID          int64        `json:"id"`
	Number      string       `json:"number"`
	Subject     string       `json:"subject"`
	ProblemType string       `json:"problem_type"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Priority    string       `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Reference returns the human-facing ticket reference, preferring the
// vendor's ticket number over the raw ID.
func (t Ticket) Reference() string {
	if t.Number != "" {
		return t.Number
	}
	return strconv.FormatInt(t.ID, 10)
}
