// Package syncro is a read-only client for the ticketing vendor's REST API.
package syncro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cloudavize/ticket-relay/internal/config"
	"github.com/cloudavize/ticket-relay/internal/domain"
)

// Client fetches tickets from the vendor API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.SyncroConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ticketsEnvelope tolerates both response shapes the vendor returns: a
// bare array or an object with a "tickets" field.
type ticketsEnvelope struct {
	Tickets []apiTicket `json:"tickets"`
}

type apiTicket struct {
	ID          int64  `json:"id"`
	Number      any    `json:"number"`
	Subject     string `json:"subject"`
	ProblemType string `json:"problem_type"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
}

// NewTickets returns unresolved tickets created strictly after the
// watermark, in ascending creation-time order.
func (c *Client) NewTickets(ctx context.Context, after time.Time) ([]domain.Ticket, error) {
	endpoint := fmt.Sprintf("%s/tickets?%s", c.baseURL, url.Values{"api_key": {c.apiKey}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch tickets: status %d: %s", resp.StatusCode, body)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tickets response: %w", err)
	}

	apiTickets, err := decodeTickets(raw)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(apiTickets))
	for _, at := range apiTickets {
		ticket, err := at.toDomain()
		if err != nil {
			continue
		}
		if ticket.Status == domain.TicketStatusResolved {
			continue
		}
		if !ticket.CreatedAt.After(after) {
			continue
		}
		tickets = append(tickets, ticket)
	}

	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func decodeTickets(raw []byte) ([]apiTicket, error) {
	var list []apiTicket
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var envelope ticketsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid tickets payload: %w", err)
	}
	return envelope.Tickets, nil
}

func (t apiTicket) toDomain() (domain.Ticket, error) {
	createdAt, err := parseCreatedAt(t.CreatedAt)
	if err != nil {
		return domain.Ticket{}, err
	}
	return domain.Ticket{
		ID:          t.ID,
		Number:      numberString(t.Number),
		Subject:     t.Subject,
		ProblemType: t.ProblemType,
		Description: t.Description,
		Status:      domain.TicketStatus(t.Status),
		Priority:    t.Priority,
		CreatedAt:   createdAt,
	}, nil
}

func parseCreatedAt(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q", value)
}

// numberString tolerates the vendor sending ticket numbers as either
// strings or JSON numbers.
func numberString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return fmt.Sprintf("%.0f", n)
	default:
		return ""
	}
}
