package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/service"
	"github.com/cloudavize/ticket-relay/internal/teams"
	apperrors "github.com/cloudavize/ticket-relay/pkg/util"
)

// MessagesHandler receives chat-platform activity payloads on the bot
// protocol endpoint.
type MessagesHandler struct {
	bot    *service.BotService
	logger *zap.Logger
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(bot *service.BotService, logger *zap.Logger) *MessagesHandler {
	return &MessagesHandler{bot: bot, logger: logger}
}

// Receive POST /api/messages.
func (h *MessagesHandler) Receive(c *fiber.Ctx) error {
	var activity teams.Activity
	if err := c.BodyParser(&activity); err != nil {
		return apperrors.NewValidationError("invalid activity payload", nil)
	}

	if err := h.bot.HandleActivity(c.UserContext(), activity); err != nil {
		// reply failures are logged, not surfaced; the connector retries
		// delivery on non-2xx and that would duplicate bot replies
		h.logger.Error("bot reply failed", zap.String("activity_type", activity.Type), zap.Error(err))
	}
	return c.SendStatus(fiber.StatusOK)
}
