package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/teams"
)

// Replier posts a reply back into the conversation an activity came from.
type Replier interface {
	ReplyTo(ctx context.Context, inbound teams.Activity, reply teams.Activity) error
}

// BotService answers inbound chat activities. It is a diagnostic utility
// for discovering mention identities; the bot is stateless across turns.
type BotService struct {
	replier     Replier
	welcomeText string
	logger      *zap.Logger
}

// NewBotService creates the service.
func NewBotService(replier Replier, welcomeText string, logger *zap.Logger) *BotService {
	return &BotService{replier: replier, welcomeText: welcomeText, logger: logger}
}

// HandleActivity dispatches one inbound activity. Unknown activity types
// are ignored.
func (s *BotService) HandleActivity(ctx context.Context, activity teams.Activity) error {
	switch activity.Type {
	case teams.ActivityTypeMessage:
		return s.handleMessage(ctx, activity)
	case teams.ActivityTypeConversationUpdate:
		return s.handleConversationUpdate(ctx, activity)
	default:
		s.logger.Debug("ignoring activity", zap.String("type", activity.Type))
		return nil
	}
}

// handleMessage replies with the sender's identities when asked "my id",
// and echoes everything else.
func (s *BotService) handleMessage(ctx context.Context, activity teams.Activity) error {
	text := strings.TrimSpace(activity.Text)
	if strings.Contains(strings.ToLower(text), "my id") {
		var userID, objectID string
		if activity.From != nil {
			userID = activity.From.ID
			objectID = activity.From.AADObjectID
		}
		reply := fmt.Sprintf("Your user ID is: %s and your Object ID is: %s", userID, objectID)
		return s.replier.ReplyTo(ctx, activity, teams.NewTextActivity(reply))
	}
	return s.replier.ReplyTo(ctx, activity, teams.NewTextActivity("Echo: "+text))
}

// handleConversationUpdate greets newly joined members, excluding the bot
// itself.
func (s *BotService) handleConversationUpdate(ctx context.Context, activity teams.Activity) error {
	for _, member := range activity.MembersAdded {
		if activity.Recipient != nil && member.ID == activity.Recipient.ID {
			continue
		}
		if err := s.replier.ReplyTo(ctx, activity, teams.NewTextActivity(s.welcomeText)); err != nil {
			s.logger.Error("welcome message failed", zap.String("member_id", member.ID), zap.Error(err))
		}
	}
	return nil
}
