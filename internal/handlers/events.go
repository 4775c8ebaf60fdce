package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"askboard/internal/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const heartbeatInterval = 25 * time.Second

// Pinger is implemented by notifiers backed by an external broker.
type Pinger interface {
	Ping(ctx context.Context) error
}

type subscriberCounter interface {
	Subscribers() int
}

type EventHandler struct {
	notifier realtime.Notifier
	logger   *zap.SugaredLogger
}

func NewEventHandler(notifier realtime.Notifier, logger *zap.SugaredLogger) *EventHandler {
	return &EventHandler{notifier: notifier, logger: logger}
}

// Question streams one question's events as Server-Sent Events.
func (h *EventHandler) Question(c *gin.Context) {
	questionID, err := paramID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	h.stream(c, h.notifier.Subscribe(questionID))
}

// All streams every event, used by the question list.
func (h *EventHandler) All(c *gin.Context) {
	h.stream(c, h.notifier.SubscribeAll())
}

func (h *EventHandler) stream(c *gin.Context, sub *realtime.Subscription) {
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"dropped": sub.Dropped()})
			return true
		}
	})
}

// Health reports liveness, open event streams, and broker reachability when
// one is configured.
func (h *EventHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if counter, ok := h.notifier.(subscriberCounter); ok {
		body["subscribers"] = counter.Subscribers()
	}

	if p, ok := h.notifier.(Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.logger.Warnw("health check failed", "error", err)
			body["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}
	c.JSON(http.StatusOK, body)
}
