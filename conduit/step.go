package conduit

// Step is one suspended or terminal state of a running pipe. The four
// implementations form a closed union: NeedInput, HaveOutput, Done and
// RegisterCleanup. Items and results are dynamically typed; the typing
// discipline lives in the Pipe role table, not in the Step union.
//
// Step graphs are built lazily through the continuation fields — none of
// the downstream states exist in memory until forced. Each continuation
// is invoked at most once along any execution path, with one documented
// exception: a Done upstream may be asked again, so NeedInput.OnDone must
// answer consistently on repeated calls.
type Step interface {
	Stepper
	step()
}

// NeedInput is a step suspended until it is given an input item (OnValue)
// or told that upstream is exhausted (OnDone). OnDone receives upstream's
// final result, or nil when there is none.
type NeedInput struct {
	OnValue func(item any) Step
	OnDone  func(result any) Step
}

// HaveOutput is a step holding one output item and the continuation to
// resume once the item has been consumed.
type HaveOutput struct {
	Value any
	Next  func() Step
}

// Done is a terminal step carrying the pipe's final result and any input
// items it received but did not consume, in original receipt order.
// Leftovers must be genuine previously received items; the engine does
// not check this.
type Done struct {
	Result    any
	Leftovers []any
}

// RegisterCleanup is a step requesting that Action run when the overall
// pipeline finishes, normally or via a panic, then continuing as Next().
// Action must tolerate being invoked more than once: the engine
// guarantees at-least-once, never earlier than pipeline completion.
type RegisterCleanup struct {
	Action func()
	Next   func() Step
}

func (*NeedInput) step()       {}
func (*HaveOutput) step()      {}
func (*Done) step()            {}
func (*RegisterCleanup) step() {}

func (s *NeedInput) asStep() Step       { return s }
func (s *HaveOutput) asStep() Step      { return s }
func (s *Done) asStep() Step            { return s }
func (s *RegisterCleanup) asStep() Step { return s }

// stateName names a step state for error messages.
func stateName(s Step) string {
	switch s.(type) {
	case *NeedInput:
		return "need_input"
	case *HaveOutput:
		return "have_output"
	case *Done:
		return "done"
	case *RegisterCleanup:
		return "register_cleanup"
	default:
		return "nil"
	}
}

// ResultError returns the error carried by a pipeline result, or nil if
// the result is not an error. Adapter sources and sinks finish with an
// error value as their result when I/O fails; this is the conventional
// way to surface it.
func ResultError(result any) error {
	if err, ok := result.(error); ok {
		return err
	}
	return nil
}
