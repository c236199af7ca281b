package operators

import (
	"github.com/flumehq/flume/conduit"
)

// FromSlice returns a source yielding each item in order, result nil.
func FromSlice(items []any) *conduit.Pipe {
	return conduit.NewSource(emit(items))
}

// FromFunc returns a source that repeatedly calls fn until it reports
// exhaustion. fn runs once per pulled item, starting at connect time.
func FromFunc(fn func() (any, bool)) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step { return funcStep(fn) })
}

// Generate returns a source yielding fn(0) through fn(n-1).
func Generate(n int, fn func(int) any) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step { return generateStep(0, n, fn) })
}

// Concat returns a source yielding every source's items in order,
// sequenced via vertical composition; the operands are consumed. Each
// source's own result is discarded and the combined result is nil.
func Concat(sources ...*conduit.Pipe) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step { return concatStep(sources) })
}

// Map returns a conduit applying fn to every item and forwarding the
// upstream result on exhaustion.
func Map(fn func(any) any) *conduit.Pipe {
	return conduit.NewConduit(mapStep(fn))
}

// Filter returns a conduit passing through only items satisfying pred.
func Filter(pred func(any) bool) *conduit.Pipe {
	return conduit.NewConduit(filterStep(pred))
}

// FlatMap returns a conduit expanding every item into zero or more
// items.
func FlatMap(fn func(any) []any) *conduit.Pipe {
	return conduit.NewConduit(flatMapStep(fn))
}

// Tap returns a pass-through conduit calling fn on every item.
func Tap(fn func(any)) *conduit.Pipe {
	return conduit.NewConduit(tapStep(fn))
}

// Take returns a conduit passing the first n items, then finishing with
// a nil result without draining upstream.
func Take(n int) *conduit.Pipe {
	return conduit.NewConduit(takeStep(n))
}

// Drop returns a conduit discarding the first n items and passing the
// rest through.
func Drop(n int) *conduit.Pipe {
	return conduit.NewConduit(dropStep(n))
}

// Batch returns a conduit grouping items into []any slices of the given
// size; a final partial batch is emitted when upstream finishes. A size
// below one behaves as one.
func Batch(size int) *conduit.Pipe {
	if size < 1 {
		size = 1
	}
	return conduit.NewConduit(batchStep(size, nil))
}

// Collect returns a sink consuming every item into a []any result. The
// upstream result is discarded.
func Collect() *conduit.Pipe {
	return conduit.NewSink(collectStep([]any{}))
}

// Drain returns a sink discarding every item, result nil.
func Drain() *conduit.Pipe {
	return conduit.NewSink(drainStep())
}

// TakeWhile returns a sink collecting the longest prefix of items
// satisfying pred into a []any result. The first failing item is
// finished as a leftover, so a Bind continuation sees it again.
func TakeWhile(pred func(any) bool) *conduit.Pipe {
	return conduit.NewSink(takeWhileStep(pred, []any{}))
}

// Fold returns a sink reducing items with fn starting from init; the
// accumulator is the result.
func Fold(init any, fn func(acc, item any) any) *conduit.Pipe {
	return conduit.NewSink(foldStep(init, fn))
}

// Count returns a sink whose result is the number of items consumed.
func Count() *conduit.Pipe {
	return conduit.NewSink(countStep(0))
}

func emit(items []any) conduit.Step {
	return emitThen(items, func() conduit.Step { return &conduit.Done{} })
}

// emitThen yields items in order, then continues as next().
func emitThen(items []any, next func() conduit.Step) conduit.Step {
	if len(items) == 0 {
		return next()
	}
	return &conduit.HaveOutput{
		Value: items[0],
		Next:  func() conduit.Step { return emitThen(items[1:], next) },
	}
}

func funcStep(fn func() (any, bool)) conduit.Step {
	v, ok := fn()
	if !ok {
		return &conduit.Done{}
	}
	return &conduit.HaveOutput{Value: v, Next: func() conduit.Step { return funcStep(fn) }}
}

func generateStep(i, n int, fn func(int) any) conduit.Step {
	if i >= n {
		return &conduit.Done{}
	}
	return &conduit.HaveOutput{Value: fn(i), Next: func() conduit.Step { return generateStep(i+1, n, fn) }}
}

func concatStep(sources []*conduit.Pipe) conduit.Step {
	if len(sources) == 0 {
		return &conduit.Done{}
	}
	return conduit.Bind(sources[0], func(any) conduit.Stepper { return concatStep(sources[1:]) })
}

func mapStep(fn func(any) any) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			return &conduit.HaveOutput{Value: fn(item), Next: func() conduit.Step { return mapStep(fn) }}
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}

func filterStep(pred func(any) bool) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			if pred(item) {
				return &conduit.HaveOutput{Value: item, Next: func() conduit.Step { return filterStep(pred) }}
			}
			return filterStep(pred)
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}

func flatMapStep(fn func(any) []any) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			return emitThen(fn(item), func() conduit.Step { return flatMapStep(fn) })
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}

func tapStep(fn func(any)) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			fn(item)
			return &conduit.HaveOutput{Value: item, Next: func() conduit.Step { return tapStep(fn) }}
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}

func takeStep(n int) conduit.Step {
	if n <= 0 {
		return &conduit.Done{}
	}
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			return &conduit.HaveOutput{Value: item, Next: func() conduit.Step { return takeStep(n - 1) }}
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}

func dropStep(n int) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			if n > 0 {
				return dropStep(n - 1)
			}
			return &conduit.HaveOutput{Value: item, Next: func() conduit.Step { return dropStep(0) }}
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}

func batchStep(size int, buf []any) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			buf = append(buf, item)
			if len(buf) >= size {
				full := buf
				return &conduit.HaveOutput{Value: full, Next: func() conduit.Step { return batchStep(size, nil) }}
			}
			return batchStep(size, buf)
		},
		OnDone: func(result any) conduit.Step {
			if len(buf) > 0 {
				partial := buf
				return &conduit.HaveOutput{Value: partial, Next: func() conduit.Step { return &conduit.Done{Result: result} }}
			}
			return &conduit.Done{Result: result}
		},
	}
}

func collectStep(acc []any) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step { return collectStep(append(acc, item)) },
		OnDone:  func(any) conduit.Step { return &conduit.Done{Result: acc} },
	}
}

func drainStep() conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(any) conduit.Step { return drainStep() },
		OnDone:  func(any) conduit.Step { return &conduit.Done{} },
	}
}

func takeWhileStep(pred func(any) bool, acc []any) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			if pred(item) {
				return takeWhileStep(pred, append(acc, item))
			}
			return &conduit.Done{Result: acc, Leftovers: []any{item}}
		},
		OnDone: func(any) conduit.Step { return &conduit.Done{Result: acc} },
	}
}

func foldStep(acc any, fn func(acc, item any) any) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step { return foldStep(fn(acc, item), fn) },
		OnDone:  func(any) conduit.Step { return &conduit.Done{Result: acc} },
	}
}

func countStep(n int) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(any) conduit.Step { return countStep(n + 1) },
		OnDone:  func(any) conduit.Step { return &conduit.Done{Result: n} },
	}
}
