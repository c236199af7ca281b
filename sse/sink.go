package sse

import (
	"encoding/json"
	"fmt"

	"github.com/flumehq/flume/conduit"
)

// SinkSummary is the result value an SSE sink finishes with.
type SinkSummary struct {
	// Events counts frames broadcast for upstream items.
	Events int
	// Err is the encode or upstream failure that ended the sink, if any.
	Err error
}

// Sink returns a sink stage that broadcasts every upstream item as an
// SSE event to clients matching pattern. Event items are broadcast with
// their own type and ID; []byte and string become payloads of eventType;
// anything else is marshalled as JSON. When the stream ends, a final
// EventTypeResult (or EventTypeError) frame is broadcast so watchers see
// completion, and the sink finishes with a SinkSummary.
func Sink(b Broadcaster, pattern, eventType string) *conduit.Pipe {
	if eventType == "" {
		eventType = EventTypeMessage
	}
	snk := &eventSink{broadcaster: b, pattern: pattern, eventType: eventType}
	return conduit.DeferSink(snk.accept)
}

type eventSink struct {
	broadcaster Broadcaster
	pattern     string
	eventType   string
	events      int
}

func (s *eventSink) accept() conduit.Step {
	return &conduit.NeedInput{
		OnValue: s.emit,
		OnDone:  s.finish,
	}
}

func (s *eventSink) emit(item interface{}) conduit.Step {
	ev, err := s.toEvent(item)
	if err != nil {
		return &conduit.Done{Result: SinkSummary{Events: s.events, Err: err}}
	}
	s.broadcaster.BroadcastToPattern(s.pattern, ev.Format())
	s.events++
	return s.accept()
}

func (s *eventSink) toEvent(item interface{}) (Event, error) {
	switch v := item.(type) {
	case Event:
		if v.Type == "" {
			v.Type = s.eventType
		}
		return v, nil
	case []byte:
		return Event{Type: s.eventType, Data: v}, nil
	case string:
		return Event{Type: s.eventType, Data: []byte(v)}, nil
	default:
		data, err := json.Marshal(item)
		if err != nil {
			return Event{}, fmt.Errorf("marshal event: %w", err)
		}
		return Event{Type: s.eventType, Data: data}, nil
	}
}

// finish broadcasts a completion frame and folds the upstream result
// into the summary.
func (s *eventSink) finish(result interface{}) conduit.Step {
	sum := SinkSummary{Events: s.events}
	if err := conduit.ResultError(result); err != nil {
		sum.Err = err
		s.broadcaster.BroadcastToPattern(s.pattern, Event{
			Type: EventTypeError,
			Data: []byte(err.Error()),
		}.Format())
		return &conduit.Done{Result: sum}
	}

	data, _ := json.Marshal(map[string]int{"events": s.events})
	s.broadcaster.BroadcastToPattern(s.pattern, Event{
		Type: EventTypeResult,
		Data: data,
	}.Format())
	return &conduit.Done{Result: sum}
}
