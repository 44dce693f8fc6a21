package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/sse"
)

type EventsHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewEventsHandler(log *logger.Logger, hub *sse.Hub) *EventsHandler {
	return &EventsHandler{
		log: log.With("handler", "EventsHandler"),
		hub: hub,
	}
}

// GET /sse/stream?channels=portfolio
// Long-lived event stream; defaults to the portfolio channel.
func (h *EventsHandler) Stream(c *gin.Context) {
	client := h.hub.NewClient()

	channels := strings.Split(c.DefaultQuery("channels", sse.ChannelPortfolio), ",")
	for _, channel := range channels {
		h.hub.Subscribe(client, strings.TrimSpace(channel))
	}
	defer h.hub.Remove(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
