package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/events"
	"github.com/cloudavize/ticket-relay/internal/observability"
	"github.com/cloudavize/ticket-relay/internal/teams"
	apperrors "github.com/cloudavize/ticket-relay/pkg/util"
)

type fakePoster struct {
	configured bool
	failAfter  int
	posted     []teams.Activity
}

func (f *fakePoster) ChannelConfigured() bool { return f.configured }

func (f *fakePoster) PostToChannel(ctx context.Context, activity teams.Activity) error {
	if f.failAfter >= 0 && len(f.posted) >= f.failAfter {
		return errors.New("connector error")
	}
	f.posted = append(f.posted, activity)
	return nil
}

func newRelay(poster *fakePoster, dispatcher events.Dispatcher, metrics *observability.Metrics) *RelayService {
	return NewRelayService(poster, dispatcher, zap.NewNop(), metrics)
}

func TestNotify(t *testing.T) {
	ctx := context.Background()
	input := NotifyInput{
		TicketID:   101,
		AssignedTo: "Jane Doe",
		Summary:    "Network down",
		UserID:     "abc",
		Priority:   "High",
	}

	t.Run("should error when no channel is configured", func(t *testing.T) {
		poster := &fakePoster{configured: false, failAfter: -1}
		err := newRelay(poster, nil, nil).Notify(ctx, input)

		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFIG_MISSING", domainErr.Code)
		assert.Empty(t, poster.posted, "no delivery attempt without channel config")
	})

	t.Run("should post a mention message before the card", func(t *testing.T) {
		poster := &fakePoster{configured: true, failAfter: -1}
		require.NoError(t, newRelay(poster, nil, nil).Notify(ctx, input))

		require.Len(t, poster.posted, 2)
		mention := poster.posted[0]
		require.Len(t, mention.Entities, 1)
		assert.Equal(t, "abc", mention.Entities[0].Mentioned.ID)
		assert.Equal(t, "Jane Doe", mention.Entities[0].Mentioned.Name)
		assert.Contains(t, mention.Text, "<at>Jane Doe</at>")

		card := poster.posted[1]
		require.Len(t, card.Attachments, 1)
		assert.Equal(t, "application/vnd.microsoft.card.adaptive", card.Attachments[0].ContentType)
	})

	t.Run("should skip the mention message without a mention identity", func(t *testing.T) {
		poster := &fakePoster{configured: true, failAfter: -1}
		noMention := input
		noMention.UserID = ""
		require.NoError(t, newRelay(poster, nil, nil).Notify(ctx, noMention))

		require.Len(t, poster.posted, 1)
		assert.NotEmpty(t, poster.posted[0].Attachments)
	})

	t.Run("should render the configured identity in the card facts", func(t *testing.T) {
		poster := &fakePoster{configured: true, failAfter: -1}
		require.NoError(t, newRelay(poster, nil, nil).Notify(ctx, input))

		card, ok := poster.posted[1].Attachments[0].Content.(teams.AdaptiveCard)
		require.True(t, ok)
		require.Len(t, card.Body, 2)
		facts := card.Body[1].Facts
		assert.Equal(t, "101", facts[0].Value)
		assert.Equal(t, "Jane Doe", facts[1].Value)
		assert.Equal(t, "Network down", facts[2].Value)
		assert.Equal(t, "High", facts[3].Value)
	})

	t.Run("should swallow delivery failures", func(t *testing.T) {
		poster := &fakePoster{configured: true, failAfter: 0}
		metrics := observability.NewMetrics()
		dispatcher := events.NewInMemoryDispatcher()

		var failed []events.Event
		dispatcher.Subscribe(events.EventDeliveryFailed, func(ctx context.Context, e events.Event) error {
			failed = append(failed, e)
			return nil
		})

		err := newRelay(poster, dispatcher, metrics).Notify(ctx, input)
		require.NoError(t, err, "caller must still see success on delivery failure")

		attempts, failures := metrics.DeliveryStats()
		assert.Equal(t, int64(1), attempts)
		assert.Equal(t, int64(1), failures)
		require.Len(t, failed, 1)
		assert.Equal(t, "101", failed[0].TicketID)
	})

	t.Run("should publish a relayed event on success", func(t *testing.T) {
		poster := &fakePoster{configured: true, failAfter: -1}
		dispatcher := events.NewInMemoryDispatcher()

		var relayed []events.Event
		dispatcher.Subscribe(events.EventTicketRelayed, func(ctx context.Context, e events.Event) error {
			relayed = append(relayed, e)
			return nil
		})

		require.NoError(t, newRelay(poster, dispatcher, nil).Notify(ctx, input))
		require.Len(t, relayed, 1)
		payload, ok := relayed[0].Payload.(events.TicketRelayedPayload)
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", payload.AssignedTo)
		assert.True(t, payload.Mentioned)
	})
}
