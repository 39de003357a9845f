package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cloudavize/ticket-relay/internal/api/dto"
	"github.com/cloudavize/ticket-relay/internal/repository"
	apperrors "github.com/cloudavize/ticket-relay/pkg/util"
)

// AssignmentsHandler exposes the persisted assignment audit trail.
type AssignmentsHandler struct {
	assignments repository.AssignmentRepository
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignments repository.AssignmentRepository) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

// ListRecent GET /assignments.
func (h *AssignmentsHandler) ListRecent(c *fiber.Ctx) error {
	if h.assignments == nil || !h.assignments.Enabled() {
		return apperrors.NewConfigMissing("assignment audit log is not enabled")
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.NewValidationError("limit must be a positive integer", nil)
		}
		limit = parsed
	}

	records, err := h.assignments.ListRecent(c.UserContext(), limit)
	if err != nil {
		return err
	}

	items := make([]dto.AssignmentSummary, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.AssignmentSummary{
			TicketID:     rec.TicketID,
			TicketNumber: rec.TicketNumber,
			Subject:      rec.Subject,
			Category:     rec.Category,
			AssignedTo:   rec.AssignedTo,
			Priority:     rec.Priority,
			Relayed:      rec.Relayed,
			CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
