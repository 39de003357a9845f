// Package poller runs the fixed-interval poll cycle: fetch tickets newer
// than the watermark, resolve assignments, and submit one notification per
// ticket to the relay.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/api/dto"
	"github.com/cloudavize/ticket-relay/internal/domain"
	"github.com/cloudavize/ticket-relay/internal/mapping"
	"github.com/cloudavize/ticket-relay/internal/repository"
	"github.com/cloudavize/ticket-relay/internal/watermark"
)

// TicketSource fetches tickets created after a watermark.
type TicketSource interface {
	NewTickets(ctx context.Context, after time.Time) ([]domain.Ticket, error)
}

// Notifier submits one notification request to the relay.
type Notifier interface {
	Notify(ctx context.Context, req dto.NotifyRequest) error
}

// Poller drives the poll/dedup/notify cycle.
type Poller struct {
	tickets     TicketSource
	table       *mapping.Table
	store       watermark.Store
	notifier    Notifier
	assignments repository.AssignmentRepository
	logger      *zap.Logger
}

// New creates a poller. The assignments repository may be disabled; audit
// rows are then skipped.
func New(tickets TicketSource, table *mapping.Table, store watermark.Store, notifier Notifier, assignments repository.AssignmentRepository, logger *zap.Logger) *Poller {
	return &Poller{
		tickets:     tickets,
		table:       table,
		store:       store,
		notifier:    notifier,
		assignments: assignments,
		logger:      logger,
	}
}

// Run executes one cycle immediately, then one per interval until the
// context is cancelled. Cycle errors are logged; the next tick retries.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	if err := p.RunCycle(ctx); err != nil {
		p.logger.Error("poll cycle failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.RunCycle(ctx); err != nil {
				p.logger.Error("poll cycle failed", zap.Error(err))
			}
		}
	}
}

// RunCycle processes one batch. Tickets are notified in ascending
// creation-time order; the watermark advances to the maximum creation time
// observed only when at least one ticket was submitted successfully, so a
// failed batch is retried whole on the next interval.
func (p *Poller) RunCycle(ctx context.Context) error {
	since, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	tickets, err := p.tickets.NewTickets(ctx, since)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		p.logger.Debug("no new tickets", zap.Time("watermark", since))
		return nil
	}
	p.logger.Info("processing tickets", zap.Int("count", len(tickets)), zap.Time("watermark", since))

	var maxCreated time.Time
	submitted := 0
	for _, ticket := range tickets {
		seen, err := p.store.Seen(ctx, ticket.ID)
		if err != nil {
			p.logger.Warn("processed-set lookup failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		} else if seen {
			continue
		}

		assignment := p.table.Resolve(ticket.ProblemType)
		p.recordAssignment(ctx, ticket, assignment)

		req := dto.NotifyRequest{
			TicketID:   ticket.ID,
			AssignedTo: assignment.Technician,
			Summary:    ticket.Subject,
			UserID:     p.table.MentionFor(assignment.Technician),
			Priority:   ticket.Priority,
		}
		if err := p.notifier.Notify(ctx, req); err != nil {
			// one failed submission ends the cycle; the unadvanced
			// watermark re-queues this ticket next interval
			p.logger.Error("notification submit failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
			break
		}

		if err := p.store.MarkSeen(ctx, ticket.ID); err != nil {
			p.logger.Warn("mark seen failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		}
		submitted++
		if ticket.CreatedAt.After(maxCreated) {
			maxCreated = ticket.CreatedAt
		}
		p.logger.Info("ticket relayed",
			zap.String("ticket", ticket.Reference()),
			zap.String("assigned_to", assignment.Technician),
		)
	}

	if submitted > 0 {
		if err := p.store.Save(ctx, maxCreated); err != nil {
			return err
		}
	}
	return nil
}

func (p *Poller) recordAssignment(ctx context.Context, ticket domain.Ticket, assignment domain.Assignment) {
	if p.assignments == nil || !p.assignments.Enabled() {
		return
	}
	record := &domain.AssignmentRecord{
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		Subject:      ticket.Subject,
		Category:     ticket.ProblemType,
		AssignedTo:   assignment.Technician,
		MentionID:    assignment.MentionID,
		Priority:     ticket.Priority,
		Status:       string(ticket.Status),
	}
	if err := p.assignments.Record(ctx, record); err != nil {
		p.logger.Warn("assignment audit write failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
	}
}
