package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudavize/ticket-relay/internal/api/dto"
	"github.com/cloudavize/ticket-relay/internal/auth"
)

// NotifyClient submits notification requests to the relay endpoint,
// signing a bearer token when a shared secret is configured.
type NotifyClient struct {
	baseURL string
	tokens  *auth.TokenManager
	http    *http.Client
}

// NewNotifyClient builds a client for the relay at baseURL.
func NewNotifyClient(baseURL string, tokens *auth.TokenManager) *NotifyClient {
	return &NotifyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Notify posts one notification request. Any non-200 response is an error;
// the caller decides whether the cycle continues.
func (c *NotifyClient) Notify(ctx context.Context, req dto.NotifyRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal notify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notify", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if c.tokens != nil && c.tokens.Enabled() {
		token, _, err := c.tokens.GenerateToken("poller")
		if err != nil {
			return fmt.Errorf("sign relay token: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post notification: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
