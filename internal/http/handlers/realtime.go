package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.Hub
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS layer for browser clients.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GET /api/subscriptions/book-added
func (h *RealtimeHandler) BookAddedSSE(c *gin.Context) {
	sub := h.subscribe(realtime.TopicBookAdded)
	defer h.cancel(sub)
	realtime.ServeSSE(c.Writer, c.Request, sub, h.log.With("subscription", sub.ID))
}

// GET /api/subscriptions/book-added/ws
func (h *RealtimeHandler) BookAddedWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		if !c.Writer.Written() {
			response.RespondError(c, apierr.ValidationFailed("websocket upgrade required", "", err))
		}
		return
	}
	defer conn.Close()
	sub := h.subscribe(realtime.TopicBookAdded)
	defer h.cancel(sub)
	realtime.ServeWebSocket(conn, sub, h.log.With("subscription", sub.ID))
}

func (h *RealtimeHandler) subscribe(topic realtime.Topic) *realtime.Subscription {
	sub := h.hub.Subscribe(topic)
	h.metrics.SetSubscribers(string(topic), h.hub.SubscriberCount(topic))
	return sub
}

func (h *RealtimeHandler) cancel(sub *realtime.Subscription) {
	sub.Cancel()
	h.metrics.SetSubscribers(string(sub.Topic), h.hub.SubscriberCount(sub.Topic))
}
