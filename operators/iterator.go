package operators

import (
	"context"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/errors"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator interface {
	// Next returns the next value. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) (any, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// FromIterator adapts an iterator into a source. The iterator is closed
// through a cleanup registration when the pipeline finishes; a read
// error ends the source with the error as its result.
func FromIterator(ctx context.Context, it Iterator) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step {
		return &conduit.RegisterCleanup{
			Action: func() { _ = it.Close() },
			Next:   func() conduit.Step { return iterStep(ctx, it) },
		}
	})
}

func iterStep(ctx context.Context, it Iterator) conduit.Step {
	v, ok, err := it.Next(ctx)
	if err != nil {
		return &conduit.Done{Result: err}
	}
	if !ok {
		return &conduit.Done{}
	}
	return &conduit.HaveOutput{Value: v, Next: func() conduit.Step { return iterStep(ctx, it) }}
}

// ToIterator drives a source pipe as an iterator, consuming the pipe.
// Cleanup registrations encountered while stepping are honored when the
// iterator is closed or the source is exhausted; an error-valued source
// result surfaces as an iterator error.
func ToIterator(p *conduit.Pipe) (Iterator, error) {
	if p == nil {
		return nil, errors.InvalidInput("pipe", "must not be nil")
	}
	if p.Role() != conduit.RoleSource {
		return nil, errors.InvalidComposition(p.Role().String(), "iterator")
	}
	s, err := p.Unwrap()
	if err != nil {
		return nil, err
	}
	return &stepIterator{step: s}, nil
}

// stepIterator walks a source's step graph one output at a time.
type stepIterator struct {
	step     conduit.Step
	pending  func() conduit.Step
	cleanups []func()
	closed   bool
}

func (si *stepIterator) Next(ctx context.Context) (any, bool, error) {
	if si.closed {
		return nil, false, nil
	}
	if si.pending != nil {
		si.step = si.pending()
		si.pending = nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		switch cur := si.step.(type) {
		case *conduit.NeedInput:
			si.step = cur.OnDone(nil)
		case *conduit.HaveOutput:
			si.pending = cur.Next
			return cur.Value, true, nil
		case *conduit.RegisterCleanup:
			si.cleanups = append(si.cleanups, cur.Action)
			si.step = cur.Next()
		case *conduit.Done:
			si.finish()
			if err := conduit.ResultError(cur.Result); err != nil {
				return nil, false, err
			}
			return nil, false, nil
		default:
			si.finish()
			return nil, false, errors.InvalidRunState("nil")
		}
	}
}

func (si *stepIterator) Close() error {
	si.finish()
	return nil
}

// finish runs collected cleanups in reverse registration order, once.
func (si *stepIterator) finish() {
	if si.closed {
		return
	}
	si.closed = true
	for i := len(si.cleanups) - 1; i >= 0; i-- {
		si.cleanups[i]()
	}
	si.cleanups = nil
}
