// Package webhook handles the Messenger platform boundary: the GET
// verification handshake and the POST event feed. Events are
// acknowledged immediately and processed asynchronously.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/misrsweets/sweetbot-go/internal/bot"
	apperrors "github.com/misrsweets/sweetbot-go/internal/errors"
	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/messenger"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
	"github.com/misrsweets/sweetbot-go/internal/reply"
)

// Handler handles Messenger webhook requests.
type Handler struct {
	verifyToken  string
	processor    *bot.Processor
	composer     *reply.Composer
	sender       *messenger.Client
	limiter      *bot.KeyedLimiter
	metrics      *metrics.Metrics
	logger       *logger.Logger
	eventTimeout time.Duration
	wg           sync.WaitGroup
}

// HandlerConfig holds everything a Handler needs.
type HandlerConfig struct {
	VerifyToken  string
	Processor    *bot.Processor
	Composer     *reply.Composer
	Sender       *messenger.Client
	Limiter      *bot.KeyedLimiter
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
	EventTimeout time.Duration
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		verifyToken:  cfg.VerifyToken,
		processor:    cfg.Processor,
		composer:     cfg.Composer,
		sender:       cfg.Sender,
		limiter:      cfg.Limiter,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger.WithModule("webhook"),
		eventTimeout: cfg.EventTimeout,
	}
}

// Verify is the Gin handler for the GET verification handshake. The
// platform sends hub.mode=subscribe with the configured verify token
// and expects the challenge echoed back verbatim.
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("Webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.logger.WithField("mode", mode).Warn("Webhook verification failed")
	c.Status(http.StatusForbidden)
}

// Receive is the Gin handler for the POST event feed. The platform
// requires a fast 200; everything else happens after the response.
func (h *Handler) Receive(c *gin.Context) {
	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.WithError(err).Warn("Failed to parse webhook body")
		c.Status(http.StatusBadRequest)
		return
	}

	if event.Object != "page" {
		c.Status(http.StatusNotFound)
		return
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", fmt.Sprint(r)).Error("Panic in async event processing")
			}
		}()

		ctx := context.Background()
		for _, entry := range event.Entry {
			for _, msg := range entry.Messaging {
				h.processMessaging(ctx, msg)
			}
		}
	}()
}

// processMessaging handles one messaging event end to end: filter,
// rate-limit, build the reply and deliver it.
func (h *Handler) processMessaging(ctx context.Context, msg Messaging) {
	start := time.Now()
	requestID := uuid.NewString()
	log := h.logger.WithField("request_id", requestID)

	senderID := msg.Sender.ID
	if senderID == "" || msg.Message == nil {
		log.Debug("Skipping event without sender or message")
		h.metrics.RecordWebhook("message", "skipped", 0)
		return
	}
	if msg.Message.IsEcho {
		h.metrics.RecordWebhook("echo", "skipped", 0)
		return
	}

	log = log.WithUser(senderID)

	if h.limiter != nil && !h.limiter.Allow(senderID) {
		log.Warn("User rate limited, dropping message")
		h.metrics.RecordRateLimited()
		h.metrics.RecordWebhook("message", "rate_limited", 0)
		return
	}

	if h.eventTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.eventTimeout)
		defer cancel()
	}

	var text string
	if msg.Message.Text == "" && len(msg.Message.Attachments) > 0 {
		text = h.composer.AttachmentAck()
	} else {
		text = h.processor.HandleMessage(ctx, senderID, msg.Message.Text)
	}

	status := "success"
	if err := h.sender.SendMessage(ctx, senderID, text); err != nil {
		if errors.Is(err, apperrors.ErrDeliveryDisabled) {
			status = "skipped"
			log.Debug("Delivery disabled, reply dropped")
		} else {
			status = "error"
			log.WithError(err).Error("Failed to deliver reply")
		}
	}
	h.metrics.RecordWebhook("message", status, time.Since(start))
}

// Shutdown waits for all async event processing to complete or the
// context to expire.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
