// Package messenger sends replies through the Facebook Graph Send API.
//
// Delivery is fire-and-forget from the core's point of view: failures
// are logged and counted, never retried and never propagated into the
// per-message handling path. With no page token configured the client
// degrades to a logged no-op so the matching core keeps working.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/misrsweets/sweetbot-go/internal/errors"
	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
)

const (
	graphAPIBase   = "https://graph.facebook.com/v19.0"
	requestTimeout = 8 * time.Second
)

// Client posts messages to the Send API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewClient creates a Send API client. An empty token disables delivery.
func NewClient(pageToken string, log *logger.Logger, m *metrics.Metrics) *Client {
	c := &Client{
		token:   pageToken,
		baseURL: graphAPIBase,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  log.WithModule("messenger"),
		metrics: m,
	}
	if pageToken == "" {
		c.logger.Warn("No page access token configured, outbound delivery disabled")
	}
	return c
}

// SetBaseURL overrides the Graph API endpoint. Test helper.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type sendRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// SendMessage delivers text to a user. At-most-once: no retries.
func (c *Client) SendMessage(ctx context.Context, userID, text string) error {
	if c.token == "" {
		c.logger.WithUser(userID).Debug("Delivery disabled, dropping outbound message")
		return errors.ErrDeliveryDisabled
	}

	var payload sendRequest
	payload.Recipient.ID = userID
	payload.Message.Text = text
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordSend(0)
		c.logger.WithUser(userID).WithError(err).Error("Failed to send message")
		return fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.RecordSend(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithUser(userID).
			WithField("status", resp.StatusCode).
			WithField("response", string(detail)).
			Error("Send API rejected message")
		return fmt.Errorf("send message: status %d", resp.StatusCode)
	}

	c.logger.WithUser(userID).WithField("length", len(text)).Debug("Message sent")
	return nil
}
