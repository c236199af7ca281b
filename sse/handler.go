package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/flumehq/flume/logger"
)

// keepAliveInterval must stay below typical proxy idle timeouts (60s).
const keepAliveInterval = 30 * time.Second

func handlerLog() *logger.Logger {
	return logger.Get("sse.handler")
}

// ConnectedEvent opens every stream, telling the client its own ID and
// what it is bound to.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	RunID    string            `json:"run_id,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ServeSSE turns the response into a server-sent event stream and pumps
// the client's frames until it disconnects. HTTP handlers call this
// after resolving the client ID.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	// SSE requires the http.Flusher interface
	flusher, ok := w.(http.Flusher)
	if !ok {
		handlerLog().Error("response writer does not support streaming", map[string]interface{}{
			"client_id": clientID,
		})
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// SSE connections are long-lived and must not be terminated by the
	// server's WriteTimeout setting.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		handlerLog().Warn("could not clear write deadline", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		// Keep going; the stream may still work.
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(clientID, opts...)
	hub.Register(client)
	defer func() {
		hub.Unregister(client)
	}()

	// Tell the client who it is before any frames arrive.
	hello, _ := json.Marshal(ConnectedEvent{
		ClientID: clientID,
		RunID:    client.RunID(),
		Metadata: client.Metadata(),
	})
	_, _ = w.Write(Event{Type: EventTypeConnected, Data: hello}.Format())
	flusher.Flush()

	handlerLog().Debug("client connected", map[string]interface{}{
		"client_id":   clientID,
		"run_id":      client.RunID(),
		"remote_addr": r.RemoteAddr,
	})

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// The request context ends when the browser goes away.
			handlerLog().Debug("client disconnected", map[string]interface{}{
				"client_id": clientID,
				"reason":    ctx.Err().Error(),
			})
			return

		case frame, ok := <-client.Frames():
			if !ok {
				// The hub closed the channel, usually during shutdown.
				handlerLog().Debug("frame channel closed", map[string]interface{}{
					"client_id": clientID,
				})
				return
			}
			// Frames arrive pre-formatted; write them through as-is.
			_, _ = w.Write(frame)
			flusher.Flush()

		case <-keepAlive.C:
			// Keeps the connection alive through proxies and load balancers
			_, _ = w.Write(Comment(EventTypeKeepAlive))
			flusher.Flush()
		}
	}
}
