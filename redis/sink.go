package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/resilience"
)

// SinkSummary is the result value a Redis list sink finishes with.
type SinkSummary struct {
	// Pushed counts items appended to the list.
	Pushed int
	// Err is the push or upstream failure that ended the sink, if any.
	Err error
}

// ListSink returns a sink stage that RPUSHes every upstream item onto the
// Redis list at key and finishes with a SinkSummary. Strings and []byte
// are pushed as-is; other items are marshalled as JSON. Pushes are
// retried with exponential backoff before the sink gives up. The client
// is borrowed and never closed by the stage.
func ListSink(ctx context.Context, client *Client, key string) *conduit.Pipe {
	return conduit.DeferSink(func() conduit.Step {
		snk := &listSink{
			ctx:    ctx,
			client: client,
			key:    key,
			retry:  resilience.DefaultRetryConfig(),
		}
		return snk.accept()
	})
}

type listSink struct {
	ctx    context.Context
	client *Client
	key    string
	retry  resilience.RetryConfig
	pushed int
}

func (s *listSink) accept() conduit.Step {
	return &conduit.NeedInput{
		OnValue: s.push,
		OnDone:  s.finish,
	}
}

func (s *listSink) push(item interface{}) conduit.Step {
	val, err := encodeItem(item)
	if err != nil {
		return &conduit.Done{Result: SinkSummary{Pushed: s.pushed, Err: err}}
	}

	err = resilience.RetryFunc(s.ctx, s.retry, func() error {
		return s.client.RPush(s.ctx, s.key, val)
	})
	if err != nil {
		s.client.log.Error("Redis list push failed", map[string]interface{}{
			"error":  err.Error(),
			"key":    s.key,
			"pushed": s.pushed,
		})
		return &conduit.Done{Result: SinkSummary{
			Pushed: s.pushed,
			Err:    fmt.Errorf("push to %s: %w", s.key, err),
		}}
	}

	s.pushed++
	return s.accept()
}

// finish folds the upstream result into the summary so source failures
// are not lost behind a clean push count.
func (s *listSink) finish(result interface{}) conduit.Step {
	sum := SinkSummary{Pushed: s.pushed}
	if err := conduit.ResultError(result); err != nil {
		sum.Err = err
	}
	return &conduit.Done{Result: sum}
}

// encodeItem coerces a stream item into a Redis list value.
func encodeItem(item interface{}) (string, error) {
	switch v := item.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(item)
		if err != nil {
			return "", fmt.Errorf("marshal item: %w", err)
		}
		return string(data), nil
	}
}
