package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/api/dto"
	"github.com/cloudavize/ticket-relay/internal/auth"
	"github.com/cloudavize/ticket-relay/internal/service"
	apperrors "github.com/cloudavize/ticket-relay/pkg/util"
)

// NotifyHandler accepts ticket-assignment notifications from the poller.
type NotifyHandler struct {
	relay  *service.RelayService
	logger *zap.Logger
}

// NewNotifyHandler constructs handler.
func NewNotifyHandler(relay *service.RelayService, logger *zap.Logger) *NotifyHandler {
	return &NotifyHandler{relay: relay, logger: logger}
}

// Notify POST /notify.
func (h *NotifyHandler) Notify(c *fiber.Ctx) error {
	var req dto.NotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == 0 || req.AssignedTo == "" {
		return apperrors.NewValidationError("ticketId and assignedTo required", nil)
	}

	caller, _ := auth.CallerFromContext(c)
	h.logger.Info("notification received",
		zap.Int64("ticket_id", req.TicketID),
		zap.String("assigned_to", req.AssignedTo),
		zap.String("caller", caller),
	)

	err := h.relay.Notify(c.UserContext(), service.NotifyInput{
		TicketID:   req.TicketID,
		AssignedTo: req.AssignedTo,
		Summary:    req.Summary,
		UserID:     req.UserID,
		Priority:   req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NotifyResponse{Status: "accepted", TicketID: req.TicketID})
}
