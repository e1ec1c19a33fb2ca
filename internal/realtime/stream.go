package realtime

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

const (
	sseHeartbeat = 15 * time.Second
	wsPingPeriod = 30 * time.Second
	wsPongWait   = 60 * time.Second
	wsWriteWait  = 10 * time.Second
)

// ServeSSE streams sub to w as Server-Sent Events until the request context
// ends or the subscription is cancelled. The caller owns sub.
func ServeSSE(w http.ResponseWriter, r *http.Request, sub *Subscription, log *logger.Logger) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("SSE client context done", "subscription", sub.ID, "err", ctx.Err())
			return
		case <-sub.Done():
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-sub.Events():
			if !ok {
				return
			}
			raw, err := marshalMessage(msg)
			if err != nil {
				log.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n", msg.Topic, sub.ID, raw)
			flusher.Flush()
		}
	}
}

// ServeWebSocket pumps sub onto conn until the peer disconnects or the
// subscription is cancelled. Inbound frames are read only to notice the
// disconnect. The caller owns both sub and conn.
func ServeWebSocket(conn *websocket.Conn, sub *Subscription, log *logger.Logger) {
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug("WebSocket peer gone", "subscription", sub.ID)
			return
		case <-sub.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case msg, ok := <-sub.Events():
			if !ok {
				return
			}
			raw, err := marshalMessage(msg)
			if err != nil {
				log.Warn("Failed to marshal WebSocket message", "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				log.Debug("WebSocket write failed", "subscription", sub.ID, "error", err)
				return
			}
		}
	}
}
