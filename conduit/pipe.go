package conduit

import (
	"github.com/flumehq/flume/errors"
)

// Role classifies a pipe by which ends of the stream it touches. Connect
// checks roles at composition time; the Step union itself is untyped.
type Role int

const (
	// RoleSource produces output and a final result, never accepts input.
	RoleSource Role = iota + 1
	// RoleConduit accepts input and produces output.
	RoleConduit
	// RoleSink accepts input and produces only a final result.
	RoleSink
	// RoleCompleted is a fully executed pipeline carrying its result.
	RoleCompleted
)

// String returns the role name used in error messages.
func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleConduit:
		return "conduit"
	case RoleSink:
		return "sink"
	case RoleCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Pipe tags a step with a role before the pipe starts running. The step
// may be held directly or as a deferred construction, forced exactly once
// at the pipe's first participation in composition so side effects of
// building it (opening a file, dialing a broker) wait until then.
//
// A Pipe is consumed the moment it participates in Connect or Bind; the
// pipes built here are not restartable, so reusing a consumed wrapper is
// rejected rather than silently re-running side effects.
type Pipe struct {
	role     Role
	step     Step
	thunk    func() Step
	result   any
	consumed bool
}

// NewSource wraps a step as a source.
func NewSource(s Step) *Pipe { return &Pipe{role: RoleSource, step: s} }

// NewConduit wraps a step as a conduit.
func NewConduit(s Step) *Pipe { return &Pipe{role: RoleConduit, step: s} }

// NewSink wraps a step as a sink.
func NewSink(s Step) *Pipe { return &Pipe{role: RoleSink, step: s} }

// DeferSource wraps a deferred step construction as a source.
func DeferSource(fn func() Step) *Pipe { return &Pipe{role: RoleSource, thunk: fn} }

// DeferConduit wraps a deferred step construction as a conduit.
func DeferConduit(fn func() Step) *Pipe { return &Pipe{role: RoleConduit, thunk: fn} }

// DeferSink wraps a deferred step construction as a sink.
func DeferSink(fn func() Step) *Pipe { return &Pipe{role: RoleSink, thunk: fn} }

// completed wraps the result of a fully executed pipeline.
func completed(result any) *Pipe {
	return &Pipe{role: RoleCompleted, result: result, consumed: true}
}

// Role returns the pipe's role.
func (p *Pipe) Role() Role { return p.role }

// Result returns the final value of a completed pipeline. Connecting a
// source directly to a sink runs the pipeline and yields a completed
// pipe; calling Result on any other role is an invalid-run-state error.
func (p *Pipe) Result() (any, error) {
	if p.role != RoleCompleted {
		return nil, errors.InvalidRunState(p.role.String())
	}
	return p.result, nil
}

// Unwrap forces the pipe down to its underlying step and consumes the
// wrapper. It is the door for drivers and bridges that walk the step
// graph by hand; ordinary composition goes through Connect and Bind.
func (p *Pipe) Unwrap() (Step, error) {
	if p.role == RoleCompleted {
		return nil, errors.New(errors.ErrCodeInvalidComposition, "cannot unwrap a completed pipeline")
	}
	if p.consumed {
		return nil, errors.New(errors.ErrCodeInvalidComposition, "pipe already consumed")
	}
	return p.force(), nil
}

// force resolves the wrapped step, running a deferred construction on
// first use, and marks the wrapper consumed.
func (p *Pipe) force() Step {
	p.consumed = true
	if p.step == nil && p.thunk != nil {
		p.step = p.thunk()
		p.thunk = nil
	}
	if p.step == nil {
		return &Done{}
	}
	return p.step
}

// asStep lets a Pipe participate in vertical composition. A completed
// pipeline binds as a finished computation carrying its result; reusing
// a consumed pipe is a programming error.
func (p *Pipe) asStep() Step {
	if p.role == RoleCompleted {
		return &Done{Result: p.result}
	}
	if p.consumed {
		panic("conduit: pipe already consumed")
	}
	return p.force()
}

// describe names a pipe operand for invalid-composition errors.
func describe(p *Pipe) string {
	if p == nil {
		return "nil"
	}
	if p.consumed && p.role != RoleCompleted {
		return "consumed " + p.role.String()
	}
	return p.role.String()
}
