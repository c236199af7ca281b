package conduit

// merge produces a step representing the synchronized execution of an
// upstream and a downstream step, holding at most one item in flight.
// Downstream's state is inspected first: its output, completion and
// cleanup requests surface through the composite unchanged, and only a
// downstream NeedInput causes upstream to be advanced.
func merge(up, down Step) Step {
	return mergeLazy(func() Step { return up }, down)
}

// mergeLazy is merge with the upstream advancement still pending: the
// thunk is forced only when downstream actually asks for input. Keep it
// that way — an early-terminating downstream must not cost the upstream
// one more production.
func mergeLazy(up func() Step, down Step) Step {
	switch d := down.(type) {
	case *NeedInput:
		return mergePull(up(), d)
	case *HaveOutput:
		// Output bubbles up through composition unchanged.
		return &HaveOutput{Value: d.Value, Next: func() Step { return mergeLazy(up, d.Next()) }}
	case *Done:
		// Downstream terminating ends the composite; upstream's remaining
		// continuations are discarded without notification, and downstream
		// leftovers do not cross the composition boundary.
		return &Done{Result: d.Result}
	case *RegisterCleanup:
		return &RegisterCleanup{Action: d.Action, Next: func() Step { return mergeLazy(up, d.Next()) }}
	default:
		panic("conduit: merge on nil downstream step")
	}
}

// mergePull advances upstream on behalf of a downstream that needs input.
func mergePull(up Step, down *NeedInput) Step {
	switch u := up.(type) {
	case *RegisterCleanup:
		// Cleanup requests from upstream surface before the pull resolves.
		return &RegisterCleanup{Action: u.Action, Next: func() Step { return mergePull(u.Next(), down) }}
	case *NeedInput:
		// Both sides are waiting: the composite pulls from the outside,
		// feeds upstream, and re-merges against the same downstream.
		return &NeedInput{
			OnValue: func(item any) Step { return merge(u.OnValue(item), down) },
			OnDone:  func(result any) Step { return merge(u.OnDone(result), down) },
		}
	case *HaveOutput:
		// Downstream consumes the value first; upstream's continuation is
		// forced only if the advanced downstream pulls again.
		return mergeLazy(u.Next, down.OnValue(u.Value))
	case *Done:
		// Upstream stays as-is so it can be asked again; OnDone handlers
		// answer Done again by convention.
		return merge(u, down.OnDone(u.Result))
	default:
		panic("conduit: merge on nil upstream step")
	}
}
