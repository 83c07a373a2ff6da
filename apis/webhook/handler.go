package webhook

import (
	"context"
	"time"

	"github.com/redhat-appstudio/statuspage-watcher/apis/common"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/metrics"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Emitter receives webhook events. *sinks.Manager satisfies it.
type Emitter interface {
	Emit(ctx context.Context, event statuspage.Event) error
}

// Handler turns Statuspage webhook deliveries into events.
type Handler struct {
	emitter Emitter

	// tracker is nil when deliveries are not deduplicated
	tracker *statuspage.Tracker

	recorder *metrics.Recorder
	now      func() time.Time
}

// NewHandler creates the webhook handler. With a nil tracker every delivery
// is emitted; otherwise deliveries whose ID the tracker has already seen are
// dropped.
func NewHandler(emitter Emitter, tracker *statuspage.Tracker, recorder *metrics.Recorder) *Handler {
	return &Handler{
		emitter:  emitter,
		tracker:  tracker,
		recorder: recorder,
		now:      time.Now,
	}
}

// Receive handles POST /webhook. The provider always gets 200
// {"status":"ok"}, including for bodies it cannot parse.
func (h *Handler) Receive(c *fiber.Ctx) error {
	ctx := c.UserContext()
	payload := statuspage.Classify(c.Body())
	h.recorder.RecordWebhookDelivery(string(payload.Kind))

	event := statuspage.Event{
		Kind:   payload.Kind,
		Source: statuspage.SourceWebhook,
		At:     h.now(),
	}

	normalized, ok := payload.Normalize()
	if !ok {
		logger.Warn("Unknown webhook payload", zap.String("reason", payload.Reason))
		event.Detail = payload.Reason
		h.emit(ctx, event)
		return c.JSON(common.AckOK)
	}
	event.Event = normalized

	if h.isDuplicate(ctx, payload.DedupKey()) {
		logger.Debug("Dropping duplicate webhook delivery", zap.String("key", payload.DedupKey()))
		h.recorder.RecordSuppressed(string(statuspage.SourceWebhook))
		return c.JSON(common.AckOK)
	}

	h.emit(ctx, event)
	return c.JSON(common.AckOK)
}

// isDuplicate reports whether key was already delivered. Store errors let
// the delivery through.
func (h *Handler) isDuplicate(ctx context.Context, key string) bool {
	if h.tracker == nil || key == "" {
		return false
	}
	isNew, err := h.tracker.Mark(ctx, key)
	if err != nil {
		logger.Error("Webhook dedup check failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return !isNew
}

func (h *Handler) emit(ctx context.Context, event statuspage.Event) {
	h.recorder.RecordEmitted(string(event.Source), string(event.Kind))
	if h.emitter == nil {
		return
	}
	_ = h.emitter.Emit(ctx, event)
}
