package teams

// AdaptiveCard is the structured multi-field card posted for each ticket.
type AdaptiveCard struct {
	Type    string     `json:"type"`
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Body    []CardNode `json:"body"`
}

// CardNode is one element of a card body.
type CardNode struct {
	Type   string     `json:"type"`
	Text   string     `json:"text,omitempty"`
	Size   string     `json:"size,omitempty"`
	Weight string     `json:"weight,omitempty"`
	Wrap   bool       `json:"wrap,omitempty"`
	Facts  []CardFact `json:"facts,omitempty"`
}

// CardFact is one row of a FactSet.
type CardFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// TicketCard renders the notification card for a ticket assignment.
func TicketCard(ticketRef, assignedTo, summary, priority string) AdaptiveCard {
	facts := []CardFact{
		{Title: "Ticket", Value: ticketRef},
		{Title: "Assigned To", Value: assignedTo},
		{Title: "Summary", Value: summary},
	}
	if priority != "" {
		facts = append(facts, CardFact{Title: "Priority", Value: priority})
	}
	return AdaptiveCard{
		Type:    "AdaptiveCard",
		Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
		Version: "1.4",
		Body: []CardNode{
			{Type: "TextBlock", Text: "New Helpdesk Ticket", Size: "Medium", Weight: "Bolder"},
			{Type: "FactSet", Facts: facts},
		},
	}
}
