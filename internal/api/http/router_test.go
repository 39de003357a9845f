package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/api/http/handlers"
	"github.com/cloudavize/ticket-relay/internal/auth"
	"github.com/cloudavize/ticket-relay/internal/events"
	"github.com/cloudavize/ticket-relay/internal/observability"
	"github.com/cloudavize/ticket-relay/internal/service"
	"github.com/cloudavize/ticket-relay/internal/teams"
)

type stubConnector struct {
	configured bool
	fail       bool
	posted     []teams.Activity
	replies    []teams.Activity
}

func (s *stubConnector) ChannelConfigured() bool { return s.configured }

func (s *stubConnector) PostToChannel(ctx context.Context, activity teams.Activity) error {
	if s.fail {
		return errors.New("connector down")
	}
	s.posted = append(s.posted, activity)
	return nil
}

func (s *stubConnector) ReplyTo(ctx context.Context, inbound teams.Activity, reply teams.Activity) error {
	s.replies = append(s.replies, reply)
	return nil
}

func newTestApp(t *testing.T, connector *stubConnector, sharedSecret string) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	relayService := service.NewRelayService(connector, dispatcher, logger, metrics)
	botService := service.NewBotService(connector, "welcome", logger)
	tokens := auth.NewTokenManager(sharedSecret, 5)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("ticket-relay", "test", nil, nil),
		Notify:         handlers.NewNotifyHandler(relayService, logger),
		Messages:       handlers.NewMessagesHandler(botService, logger),
		Assignments:    handlers.NewAssignmentsHandler(nil),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func validNotify() map[string]any {
	return map[string]any{
		"ticketId":   101,
		"assignedTo": "Jane Doe",
		"summary":    "Network down",
		"userId":     "abc",
	}
}

func TestNotifyEndpoint(t *testing.T) {
	t.Run("should accept a valid payload with a configured channel", func(t *testing.T) {
		connector := &stubConnector{configured: true}
		app := newTestApp(t, connector, "")

		resp := postJSON(t, app, "/notify", validNotify(), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), `"accepted"`)
		assert.Len(t, connector.posted, 2, "mention message plus card")
	})

	t.Run("should return 500 and attempt nothing without channel config", func(t *testing.T) {
		connector := &stubConnector{configured: false}
		app := newTestApp(t, connector, "")

		resp := postJSON(t, app, "/notify", validNotify(), nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), "CONFIG_MISSING")
		assert.Empty(t, connector.posted)
	})

	t.Run("should return 200 even when chat delivery fails", func(t *testing.T) {
		connector := &stubConnector{configured: true, fail: true}
		app := newTestApp(t, connector, "")

		resp := postJSON(t, app, "/notify", validNotify(), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("should reject a payload without required fields", func(t *testing.T) {
		connector := &stubConnector{configured: true}
		app := newTestApp(t, connector, "")

		resp := postJSON(t, app, "/notify", map[string]any{"summary": "no id"}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should require a bearer token when a shared secret is set", func(t *testing.T) {
		connector := &stubConnector{configured: true}
		app := newTestApp(t, connector, "super-secret")

		resp := postJSON(t, app, "/notify", validNotify(), nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		tokens := auth.NewTokenManager("super-secret", 5)
		token, _, err := tokens.GenerateToken("poller")
		require.NoError(t, err)

		resp = postJSON(t, app, "/notify", validNotify(), map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		connector := &stubConnector{configured: true}
		app := newTestApp(t, connector, "super-secret")

		tokens := auth.NewTokenManager("wrong-secret", 5)
		token, _, err := tokens.GenerateToken("poller")
		require.NoError(t, err)

		resp := postJSON(t, app, "/notify", validNotify(), map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestMessagesEndpoint(t *testing.T) {
	t.Run("should reply to my id with sender identities", func(t *testing.T) {
		connector := &stubConnector{}
		app := newTestApp(t, connector, "")

		activity := teams.Activity{
			Type:         teams.ActivityTypeMessage,
			ServiceURL:   "https://example.test",
			Text:         "my id",
			From:         &teams.ChannelAccount{ID: "29:user", AADObjectID: "aad-1"},
			Conversation: &teams.ConversationAccount{ID: "conv"},
		}
		resp := postJSON(t, app, "/api/messages", activity, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, connector.replies, 1)
		assert.Contains(t, connector.replies[0].Text, "29:user")
	})

	t.Run("should echo ordinary messages", func(t *testing.T) {
		connector := &stubConnector{}
		app := newTestApp(t, connector, "")

		activity := teams.Activity{
			Type:         teams.ActivityTypeMessage,
			ServiceURL:   "https://example.test",
			Text:         "ping",
			From:         &teams.ChannelAccount{ID: "29:user"},
			Conversation: &teams.ConversationAccount{ID: "conv"},
		}
		resp := postJSON(t, app, "/api/messages", activity, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, connector.replies, 1)
		assert.Equal(t, "Echo: ping", connector.replies[0].Text)
	})

	t.Run("should reject malformed activity payloads", func(t *testing.T) {
		connector := &stubConnector{}
		app := newTestApp(t, connector, "")

		req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	connector := &stubConnector{}
	app := newTestApp(t, connector, "")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssignmentsEndpoint(t *testing.T) {
	t.Run("should report missing audit log configuration", func(t *testing.T) {
		connector := &stubConnector{}
		app := newTestApp(t, connector, "")

		req := httptest.NewRequest(http.MethodGet, "/assignments", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
