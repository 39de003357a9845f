package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cloudavize/ticket-relay/internal/config"
)

// Connector posts activities to the bot connector's conversation API.
// Delivery is attempted once per call; retries are the caller's decision.
type Connector struct {
	cfg  config.TeamsConfig
	http *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewConnector builds a connector from configuration.
func NewConnector(cfg config.TeamsConfig) *Connector {
	return &Connector{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// ChannelConfigured reports whether the preconfigured channel is usable.
func (c *Connector) ChannelConfigured() bool {
	return c.cfg.ChannelConfigured()
}

// PostToChannel sends an activity to the preconfigured channel.
func (c *Connector) PostToChannel(ctx context.Context, activity Activity) error {
	if !c.ChannelConfigured() {
		return fmt.Errorf("no conversation configured")
	}
	return c.PostActivity(ctx, c.cfg.ServiceURL, c.cfg.ConversationID, activity)
}

// ReplyTo posts an activity back into the conversation an inbound
// activity arrived from.
func (c *Connector) ReplyTo(ctx context.Context, inbound Activity, reply Activity) error {
	if inbound.Conversation == nil || inbound.ServiceURL == "" {
		return fmt.Errorf("inbound activity has no conversation reference")
	}
	reply.ReplyToID = inbound.ID
	reply.Conversation = inbound.Conversation
	if inbound.From != nil {
		reply.Recipient = inbound.From
	}
	if inbound.Recipient != nil {
		reply.From = inbound.Recipient
	}
	return c.PostActivity(ctx, inbound.ServiceURL, inbound.Conversation.ID, reply)
}

// PostActivity sends one activity to a conversation on the given service URL.
func (c *Connector) PostActivity(ctx context.Context, serviceURL, conversationID string, activity Activity) error {
	body, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v3/conversations/%s/activities",
		strings.TrimRight(serviceURL, "/"), url.PathEscape(conversationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("acquire connector token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post activity: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// token returns a cached connector access token, fetching a fresh one via
// the client-credentials grant when the cache is empty or near expiry.
// Without app credentials (local emulator) the connector sends no token.
func (c *Connector) token(ctx context.Context) (string, error) {
	if c.cfg.AppID == "" || c.cfg.AppPassword == "" {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.AppID},
		"client_secret": {c.cfg.AppPassword},
		"scope":         {"https://api.botframework.com/.default"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token request: status %d: %s", resp.StatusCode, detail)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.accessToken = payload.AccessToken
	// renew a minute before the advertised expiry
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}
