package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudavize/ticket-relay/internal/api/dto"
	"github.com/cloudavize/ticket-relay/internal/auth"
)

func TestNotifyClient(t *testing.T) {
	ctx := context.Background()
	req := dto.NotifyRequest{
		TicketID:   101,
		AssignedTo: "Jane Doe",
		Summary:    "Network down",
		UserID:     "abc",
	}

	t.Run("should post the payload to /notify", func(t *testing.T) {
		var got dto.NotifyRequest
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/notify", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"status":"accepted","ticketId":101}`))
		}))
		defer server.Close()

		client := NewNotifyClient(server.URL, auth.NewTokenManager("", 5))
		require.NoError(t, client.Notify(ctx, req))
		assert.Equal(t, req, got)
		assert.Empty(t, gotAuth, "no token without a shared secret")
	})

	t.Run("should sign a bearer token when a shared secret is set", func(t *testing.T) {
		tokens := auth.NewTokenManager("super-secret", 5)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			require.NotEmpty(t, header)
			claims, err := tokens.ParseToken(header[len("Bearer "):])
			require.NoError(t, err)
			assert.Equal(t, "poller", claims.Caller)
			w.Write([]byte(`{"status":"accepted","ticketId":101}`))
		}))
		defer server.Close()

		client := NewNotifyClient(server.URL, tokens)
		require.NoError(t, client.Notify(ctx, req))
	})

	t.Run("should fail on a non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewNotifyClient(server.URL, auth.NewTokenManager("", 5))
		assert.Error(t, client.Notify(ctx, req))
	})
}
