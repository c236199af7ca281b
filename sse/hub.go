package sse

import (
	"path/filepath"
	"sync"

	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/util"
)

// hubLog returns the component logger for hub internals. Going through the
// registry lets applications swap in a quieter logger for the hub alone.
func hubLog() *logger.Logger {
	return logger.Get("sse.hub")
}

// Client is one subscriber attached to the hub, typically a browser
// watching a pipeline run.
type Client struct {
	id       string            // Unique client ID
	metadata map[string]string // Optional metadata (run ID, pipeline name, etc.)
	frames   chan []byte       // Formatted SSE frames bound for the client
}

// ClientOption customizes a Client at construction.
type ClientOption func(*Client)

// WithMetadata attaches one metadata entry to the client.
func WithMetadata(key, value string) ClientOption {
	return func(c *Client) {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		c.metadata[key] = value
	}
}

// WithRunID tags the client with the pipeline run it is watching.
func WithRunID(runID string) ClientOption {
	return WithMetadata("run_id", runID)
}

// NewClient builds a client with a buffered frame channel.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{
		id:       id,
		metadata: make(map[string]string),
		frames:   make(chan []byte, 256),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the client identifier the hub matches patterns against.
func (c *Client) ID() string {
	return c.id
}

// Metadata returns every metadata entry on the client.
func (c *Client) Metadata() map[string]string {
	return c.metadata
}

// GetMetadata returns one metadata value, or the empty string.
func (c *Client) GetMetadata(key string) string {
	return c.metadata[key]
}

// RunID returns the run ID the client is watching (convenience method).
func (c *Client) RunID() string {
	return c.metadata["run_id"]
}

// Frames returns the channel of formatted SSE frames for the client.
func (c *Client) Frames() <-chan []byte {
	return c.frames
}

// Send queues a formatted frame for the client. A full channel means the
// client is reading too slowly; the frame is dropped and Send returns false.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.frames <- frame:
		return true
	default:
		hubLog().Warn("client channel full, dropping frame", map[string]interface{}{
			"client_id": c.id,
		})
		return false
	}
}

// Close closes the client's frame channel.
func (c *Client) Close() {
	close(c.frames)
}

// Hub manages SSE client connections and frame broadcasting.
type Hub struct {
	clients    map[string]*Client // client ID -> Client
	register   chan *Client       // Arriving clients
	unregister chan *Client       // Departing clients
	broadcast  chan *Message      // Frames to fan out
	done       chan struct{}      // Signals the hub to stop
	stopped    bool               // Whether the hub has been stopped
	mu         sync.RWMutex       // Protects clients map for reads during matching
}

// Message represents a frame to broadcast.
type Message struct {
	Pattern string // Glob pattern for matching clients
	Data    []byte // Frame to send
}

// NewHub builds a hub ready for Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
	}
}

// Run serializes registration, unregistration, and broadcasting.
// It blocks until Stop is called, so start it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			hubLog().Debug("client registered", map[string]interface{}{
				"client_id":     client.id,
				"total_clients": len(h.clients),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.Close()
			}
			h.mu.Unlock()
			hubLog().Debug("client unregistered", map[string]interface{}{
				"client_id":     client.id,
				"total_clients": len(h.clients),
			})

		case msg := <-h.broadcast:
			h.broadcastWithPattern(msg.Pattern, msg.Data)
		}
	}
}

// Stop makes Run close every client and return. Safe to call more
// than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

// closeAllClients empties the client map when the hub shuts down.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
	hubLog().Debug("all clients closed during shutdown")
}

// Register hands a client to the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister asks the hub loop to drop the client and close its channel.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToPattern sends a frame to all clients matching the pattern.
// Pattern uses glob-style matching (e.g., "run:*" or "run:abc123").
func (h *Hub) BroadcastToPattern(pattern string, frame []byte) {
	h.broadcast <- &Message{
		Pattern: pattern,
		Data:    frame,
	}
}

// broadcastWithPattern fans a frame out to clients whose ID matches the
// glob. Only the Run goroutine calls it.
func (h *Hub) broadcastWithPattern(pattern string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matchCount := 0
	for clientID, client := range h.clients {
		matched, err := filepath.Match(pattern, clientID)
		if err != nil {
			hubLog().Error("pattern match error", map[string]interface{}{
				"pattern": pattern,
				"error":   err.Error(),
			})
			continue
		}
		if matched {
			if client.Send(frame) {
				matchCount++
			}
		}
	}

	if matchCount > 0 {
		hubLog().Debug("broadcast sent",
			map[string]interface{}{
				"pattern":     pattern,
				"match_count": matchCount,
				"frame_size":  len(frame),
			},
		)
	} else {
		hubLog().Debug("no clients matched pattern",
			map[string]interface{}{
				"pattern":       pattern,
				"total_clients": len(h.clients),
			},
		)
	}
}

// GetClientCount reports how many clients are attached.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetClientIDs returns the connected client IDs in no particular order.
func (h *Hub) GetClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return util.Keys(h.clients)
}

// GetClient looks up a client by ID, returning nil when absent.
func (h *Hub) GetClient(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id]
}

// Compile-time check that Hub satisfies Broadcaster.
var _ Broadcaster = (*Hub)(nil)
