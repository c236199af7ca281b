package conduit

// WithLeftovers replays previously received but unconsumed input items
// into a step before it asks upstream for new input. Items arrive in
// slice order, exactly as if they had just come from upstream. Output
// and cleanup nodes are preserved with the replay deferred into their
// continuations; if the step finishes without consuming everything, the
// remaining items are appended after the step's own leftovers, so
// re-injection never discards or reorders anything.
func WithLeftovers(s Step, items []any) Step {
	if len(items) == 0 {
		return s
	}
	switch cur := s.(type) {
	case *NeedInput:
		return WithLeftovers(cur.OnValue(items[0]), items[1:])
	case *HaveOutput:
		return &HaveOutput{Value: cur.Value, Next: func() Step { return WithLeftovers(cur.Next(), items) }}
	case *RegisterCleanup:
		return &RegisterCleanup{Action: cur.Action, Next: func() Step { return WithLeftovers(cur.Next(), items) }}
	default:
		done := cur.(*Done)
		merged := make([]any, 0, len(done.Leftovers)+len(items))
		merged = append(merged, done.Leftovers...)
		merged = append(merged, items...)
		return &Done{Result: done.Result, Leftovers: merged}
	}
}
