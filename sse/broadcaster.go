package sse

// Broadcaster is an interface for broadcasting frames to clients.
// Stream stages depend on it rather than on a concrete Hub.
type Broadcaster interface {
	// BroadcastToPattern sends a frame to all clients matching the given
	// pattern. Pattern uses glob-style matching (e.g., "run:*" or
	// "run:abc123").
	BroadcastToPattern(pattern string, frame []byte)
}
