package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/teams"
)

type fakeReplier struct {
	replies []teams.Activity
}

func (f *fakeReplier) ReplyTo(ctx context.Context, inbound teams.Activity, reply teams.Activity) error {
	f.replies = append(f.replies, reply)
	return nil
}

func inboundMessage(text string) teams.Activity {
	return teams.Activity{
		Type:       teams.ActivityTypeMessage,
		ID:         "act-1",
		ServiceURL: "https://example.test",
		Text:       text,
		From: &teams.ChannelAccount{
			ID:          "29:user",
			Name:        "Jane Doe",
			AADObjectID: "aad-123",
		},
		Recipient:    &teams.ChannelAccount{ID: "28:bot"},
		Conversation: &teams.ConversationAccount{ID: "conv-1"},
	}
}

func TestHandleActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("should reply with the sender identities for my id", func(t *testing.T) {
		replier := &fakeReplier{}
		bot := NewBotService(replier, "welcome", zap.NewNop())

		require.NoError(t, bot.HandleActivity(ctx, inboundMessage("What is MY ID please")))
		require.Len(t, replier.replies, 1)
		assert.Contains(t, replier.replies[0].Text, "29:user")
		assert.Contains(t, replier.replies[0].Text, "aad-123")
	})

	t.Run("should echo other messages", func(t *testing.T) {
		replier := &fakeReplier{}
		bot := NewBotService(replier, "welcome", zap.NewNop())

		require.NoError(t, bot.HandleActivity(ctx, inboundMessage("hello there")))
		require.Len(t, replier.replies, 1)
		assert.Equal(t, "Echo: hello there", replier.replies[0].Text)
	})

	t.Run("should greet new members excluding the bot", func(t *testing.T) {
		replier := &fakeReplier{}
		bot := NewBotService(replier, "welcome aboard", zap.NewNop())

		activity := teams.Activity{
			Type:      teams.ActivityTypeConversationUpdate,
			Recipient: &teams.ChannelAccount{ID: "28:bot"},
			MembersAdded: []teams.ChannelAccount{
				{ID: "28:bot"},
				{ID: "29:newbie"},
				{ID: "29:other"},
			},
			Conversation: &teams.ConversationAccount{ID: "conv-1"},
			ServiceURL:   "https://example.test",
		}

		require.NoError(t, bot.HandleActivity(ctx, activity))
		require.Len(t, replier.replies, 2, "the bot must not greet itself")
		assert.Equal(t, "welcome aboard", replier.replies[0].Text)
	})

	t.Run("should ignore unknown activity types", func(t *testing.T) {
		replier := &fakeReplier{}
		bot := NewBotService(replier, "welcome", zap.NewNop())

		require.NoError(t, bot.HandleActivity(ctx, teams.Activity{Type: "typing"}))
		assert.Empty(t, replier.replies)
	})
}
