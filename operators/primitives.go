package operators

import (
	"github.com/flumehq/flume/conduit"
)

// PulledKind tags what AwaitResult observed from upstream.
type PulledKind int

const (
	// PulledValue means one item was consumed.
	PulledValue PulledKind = iota + 1
	// PulledResult means upstream was already exhausted and its final
	// result was captured instead.
	PulledResult
)

// String returns the kind name.
func (k PulledKind) String() string {
	switch k {
	case PulledValue:
		return "value"
	case PulledResult:
		return "result"
	default:
		return "unknown"
	}
}

// Pulled is AwaitResult's outcome: one item, or the upstream result.
type Pulled struct {
	Kind  PulledKind
	Value any
}

// Await returns a sink consuming at most one item. Its result is a
// present/absent indicator: a one-element slice holding the item, or an
// empty slice when upstream finished first.
func Await() *conduit.Pipe {
	return conduit.NewSink(&conduit.NeedInput{
		OnValue: func(item any) conduit.Step { return &conduit.Done{Result: []any{item}} },
		OnDone:  func(any) conduit.Step { return &conduit.Done{Result: []any{}} },
	})
}

// AwaitResult returns a sink consuming one item or learning the final
// upstream result, reported as a tagged Pulled.
func AwaitResult() *conduit.Pipe {
	return conduit.NewSink(&conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			return &conduit.Done{Result: Pulled{Kind: PulledValue, Value: item}}
		},
		OnDone: func(result any) conduit.Step {
			return &conduit.Done{Result: Pulled{Kind: PulledResult, Value: result}}
		},
	})
}

// Yield returns a source producing a single item with a nil result.
func Yield(v any) *conduit.Pipe {
	return conduit.NewSource(&conduit.HaveOutput{
		Value: v,
		Next:  func() conduit.Step { return &conduit.Done{} },
	})
}

// Finished returns a source that produces nothing and finishes
// immediately with result.
func Finished(result any) *conduit.Pipe {
	return conduit.NewSource(&conduit.Done{Result: result})
}
