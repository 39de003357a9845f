package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/events"
	"github.com/cloudavize/ticket-relay/internal/repository"
)

// AuditService subscribes to relay events, logging every outcome and
// flipping the relayed flag on the persisted assignment row when the
// audit log is enabled.
type AuditService struct {
	dispatcher  events.Dispatcher
	assignments repository.AssignmentRepository
	logger      *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, assignments repository.AssignmentRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher:  dispatcher,
		assignments: assignments,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketRelayed, a.handleTicketRelayed)
	a.dispatcher.Subscribe(events.EventDeliveryFailed, a.handleDeliveryFailed)
}

func (a *AuditService) handleTicketRelayed(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketRelayed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	if a.assignments == nil || !a.assignments.Enabled() {
		return nil
	}
	ticketID, err := strconv.ParseInt(event.TicketID, 10, 64)
	if err != nil {
		return nil
	}
	if err := a.assignments.MarkRelayed(ctx, ticketID); err != nil {
		a.logger.Error("mark relayed failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}

func (a *AuditService) handleDeliveryFailed(ctx context.Context, event events.Event) error {
	a.logger.Warn("DeliveryFailed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}
