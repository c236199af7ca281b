package operators

import (
	"fmt"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/errors"
)

// MapFn is Map over typed items. An item of the wrong type panics,
// which propagates to the pipeline caller like any user-code failure.
func MapFn[I, O any](fn func(I) O) *conduit.Pipe {
	return Map(func(item any) any { return fn(item.(I)) })
}

// FilterFn is Filter over typed items.
func FilterFn[T any](pred func(T) bool) *conduit.Pipe {
	return Filter(func(item any) bool { return pred(item.(T)) })
}

// FromSliceOf is FromSlice over a typed slice.
func FromSliceOf[T any](items []T) *conduit.Pipe {
	boxed := make([]any, len(items))
	for i, item := range items {
		boxed[i] = item
	}
	return FromSlice(boxed)
}

// CollectAs converts a Collect result into a typed slice.
func CollectAs[T any](result any) ([]T, error) {
	items, ok := result.([]any)
	if !ok {
		return nil, errors.InvalidInput("result", fmt.Sprintf("expected item slice, got %T", result))
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("item[%d]", i), fmt.Sprintf("unexpected type %T", item))
		}
		out = append(out, v)
	}
	return out, nil
}
