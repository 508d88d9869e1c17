// Package fcm delivers push notifications through the FCM HTTP gateway.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hcmus-forum/forumus-backend/internal/config"
)

// Client sends messages to device tokens over the legacy HTTP API.
type Client struct {
	endpoint   string
	serverKey  string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a push client from the gateway configuration.
func New(log *slog.Logger, cfg config.PushConfig) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		serverKey:  cfg.ServerKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("adapter", "fcm"),
	}
}

// message is the gateway request body.
type message struct {
	To           string            `json:"to"`
	Notification notificationBody  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type notificationBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// sendResponse is the subset of the gateway response we inspect.
type sendResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

// SendToToken delivers one notification to one device token.
func (c *Client) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(message{
		To:           token,
		Notification: notificationBody{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("fcm: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("fcm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	started := time.Now()
	resp, err := c.doWithRetry(ctx, req, payload)
	if err != nil {
		return fmt.Errorf("fcm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fcm: read body: %w", err)
	}

	var sr sendResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return fmt.Errorf("fcm: decode response: %w", err)
	}
	if sr.Failure > 0 {
		reason := "unknown"
		if len(sr.Results) > 0 && sr.Results[0].Error != "" {
			reason = sr.Results[0].Error
		}
		return fmt.Errorf("fcm: delivery rejected: %s", reason)
	}

	c.log.DebugContext(ctx, "push delivered", slog.Duration("took", time.Since(started)))
	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, payload []byte) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "fcm retry", slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retry := req.Clone(ctx)
	retry.Body = io.NopCloser(bytes.NewReader(payload))
	return c.httpClient.Do(retry)
}
