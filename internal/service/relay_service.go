package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/events"
	"github.com/cloudavize/ticket-relay/internal/observability"
	"github.com/cloudavize/ticket-relay/internal/teams"
	apperrors "github.com/cloudavize/ticket-relay/pkg/util"
)

// ChannelPoster is the slice of the connector the relay needs.
type ChannelPoster interface {
	ChannelConfigured() bool
	PostToChannel(ctx context.Context, activity teams.Activity) error
}

// NotifyInput carries a validated notification request.
type NotifyInput struct {
	TicketID   int64
	AssignedTo string
	Summary    string
	UserID     string
	Priority   string
}

// RelayService formats ticket assignments as chat messages and delivers
// them to the preconfigured channel.
type RelayService struct {
	poster     ChannelPoster
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewRelayService creates the service.
func NewRelayService(poster ChannelPoster, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *RelayService {
	return &RelayService{
		poster:     poster,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// Notify delivers one ticket notification: an @-mention pre-message when a
// mention identity is present, then the ticket card. Chat-delivery failure
// is logged and swallowed so the ticket source never retries and duplicates
// notifications; only missing channel configuration is surfaced as an error.
func (s *RelayService) Notify(ctx context.Context, input NotifyInput) error {
	if !s.poster.ChannelConfigured() {
		return apperrors.NewConfigMissing("no conversation configured for notifications")
	}

	ticketRef := strconv.FormatInt(input.TicketID, 10)

	if input.UserID != "" {
		mention := teams.NewMentionActivity(input.UserID, input.AssignedTo)
		if err := s.poster.PostToChannel(ctx, mention); err != nil {
			s.deliveryFailed(ctx, input, ticketRef, err)
			return nil
		}
	}

	card := teams.NewCardActivity(teams.TicketCard(ticketRef, input.AssignedTo, input.Summary, input.Priority))
	if err := s.poster.PostToChannel(ctx, card); err != nil {
		s.deliveryFailed(ctx, input, ticketRef, err)
		return nil
	}

	s.metrics.RecordDelivery(true)
	s.logger.Info("notification delivered",
		zap.String("ticket_id", ticketRef),
		zap.String("assigned_to", input.AssignedTo),
	)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketRelayed,
		TicketID:  ticketRef,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketRelayedPayload{
			AssignedTo: input.AssignedTo,
			Summary:    input.Summary,
			Mentioned:  input.UserID != "",
		},
	})
	return nil
}

func (s *RelayService) deliveryFailed(ctx context.Context, input NotifyInput, ticketRef string, err error) {
	s.metrics.RecordDelivery(false)
	s.logger.Error("chat delivery failed",
		zap.String("ticket_id", ticketRef),
		zap.String("assigned_to", input.AssignedTo),
		zap.Error(err),
	)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDeliveryFailed,
		TicketID:  ticketRef,
		Timestamp: time.Now().UTC(),
		Payload: events.DeliveryFailedPayload{
			AssignedTo: input.AssignedTo,
			Reason:     err.Error(),
		},
	})
}

func (s *RelayService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
