package sse

import (
	"bytes"
	"fmt"
)

// Event types the toolkit itself emits. Applications define their own
// types for domain events alongside these.
const (
	// EventTypeConnected opens every stream.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive names the periodic comment frame.
	EventTypeKeepAlive = "keepalive"

	// EventTypeMessage is the default event type.
	EventTypeMessage = "message"

	// EventTypeError carries a failure report.
	EventTypeError = "error"

	// EventTypeResult is sent when a pipeline finishes, carrying its result.
	EventTypeResult = "result"
)

// Event is one server-sent event. ID and Type are optional; Data may
// span multiple lines.
type Event struct {
	ID   string
	Type string
	Data []byte
}

// Format renders the event as an SSE wire frame: optional id and event
// fields, one data line per payload line, and a terminating blank line.
func (e Event) Format() []byte {
	var b bytes.Buffer
	if e.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", e.ID)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, "event: %s\n", e.Type)
	}
	for _, line := range bytes.Split(e.Data, []byte("\n")) {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// Comment formats an SSE comment frame. Proxies and load balancers see
// traffic, clients ignore it; used for keep-alives.
func Comment(text string) []byte {
	return []byte(": " + text + "\n\n")
}
