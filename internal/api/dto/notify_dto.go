package dto

// NotifyRequest is the ticket-assignment payload accepted by POST /notify.
type NotifyRequest struct {
	TicketID   int64  `json:"ticketId"`
	AssignedTo string `json:"assignedTo"`
	Summary    string `json:"summary"`
	UserID     string `json:"userId,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

// NotifyResponse acknowledges an accepted notification request.
type NotifyResponse struct {
	Status   string `json:"status"`
	TicketID int64  `json:"ticketId"`
}

// AssignmentSummary is one row of the recent-assignments listing.
type AssignmentSummary struct {
	TicketID     int64  `json:"ticket_id"`
	TicketNumber string `json:"ticket_number"`
	Subject      string `json:"subject"`
	Category     string `json:"category"`
	AssignedTo   string `json:"assigned_to"`
	Priority     string `json:"priority"`
	Relayed      bool   `json:"relayed"`
	CreatedAt    string `json:"created_at"`
}
