package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/transcribe-mcp/logger"
)

// DefaultKeepAlive is the interval between keep-alive comments.
const DefaultKeepAlive = 30 * time.Second

// ServeSSE streams hub events to one client until the request context ends
// or the hub stops.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, keepAlive time.Duration) {
	log := hub.log.WithFields(logger.Fields("client_id", clientID))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// event streams outlive the server WriteTimeout
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.WithError(err).Debug("could not disable write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(clientID, log)
	if !hub.Register(client) {
		http.Error(w, "event feed is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	connected, _ := json.Marshal(Event{Type: TypeConnected, RequestID: clientID, Timestamp: time.Now().UTC()})
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", TypeConnected, connected)
	flusher.Flush()
	log.Debug("event client connected", logger.Fields("remote_addr", r.RemoteAddr))

	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("event client disconnected")
			return

		case data, ok := <-client.Events():
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()

		case <-ticker.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

// Handler returns a gin handler that opens an event stream with a fresh
// client id.
func Handler(hub *Hub, keepAlive time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ServeSSE(hub, c.Writer, c.Request, ClientPrefix+uuid.NewString(), keepAlive)
	}
}
