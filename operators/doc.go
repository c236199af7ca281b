// Package operators provides the list-combinator library on top of the
// conduit engine: the await/yield primitives, slice and generator
// sources, map/filter-style and throttling conduits, collecting and
// folding sinks, and bridges to the Iterator pull interface.
//
// Everything here is a client of conduit's exported surface. Combinator
// pipes are single-use like any other pipe: build a fresh one per
// composition.
//
//	p, err := conduit.Connect(
//		operators.FromSlice([]any{1, 2, 3}),
//		operators.Map(func(v any) any { return v.(int) * 10 }),
//		operators.Collect(),
//	)
//	result, err := p.Result() // []any{10, 20, 30}
package operators
