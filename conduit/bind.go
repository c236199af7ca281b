package conduit

// Stepper is anything that can be resolved to a Step: every Step is one,
// and so is a Pipe (resolving a Pipe forces and consumes it). It is the
// argument surface for vertical composition, so user code can sequence
// raw steps and wrapped pipes without converting between them.
type Stepper interface {
	asStep() Step
}

// Bind is vertical composition: it sequences p's eventual result into f,
// which builds the computation that runs next. Suspended states pass
// through with the sequencing pushed under the suspension; when p ends,
// f receives its result and any leftover input items p did not consume
// are replayed into f's computation before it asks upstream for more.
//
// A nil f forwards the result unchanged, and a nil p behaves as an
// already-finished computation with a nil result, so partially built
// sequencing chains fall through as no-ops instead of crashing.
func Bind(p Stepper, f func(result any) Stepper) Step {
	switch cur := resolve(p).(type) {
	case *NeedInput:
		return &NeedInput{
			OnValue: func(item any) Step { return Bind(cur.OnValue(item), f) },
			OnDone:  func(result any) Step { return Bind(cur.OnDone(result), f) },
		}
	case *HaveOutput:
		return &HaveOutput{Value: cur.Value, Next: func() Step { return Bind(cur.Next(), f) }}
	case *RegisterCleanup:
		return &RegisterCleanup{Action: cur.Action, Next: func() Step { return Bind(cur.Next(), f) }}
	default:
		done := cur.(*Done)
		if f == nil {
			return done
		}
		next := resolve(f(done.Result))
		return WithLeftovers(next, done.Leftovers)
	}
}

// resolve forces a Stepper down to its Step, treating nil as finished.
func resolve(p Stepper) Step {
	if p == nil {
		return &Done{}
	}
	return p.asStep()
}
