package conduit

import (
	"github.com/flumehq/flume/errors"
)

// Connect is horizontal composition: it joins pipes end-to-end so each
// one's output feeds the next one's input, folding left to right. Roles
// compose per the table in the package documentation; a nil upstream is
// the identity element and returns the downstream operand untouched.
//
// Connecting a source directly to a sink saturates the pipeline: the
// merged step is driven to completion immediately and the returned pipe
// has RoleCompleted, with the final value available through Result.
//
// Every operand is consumed by a successful pairing. Any pairing outside
// the role table, including a nil downstream or a reused operand, is an
// invalid-composition error naming both sides.
func Connect(pipes ...*Pipe) (*Pipe, error) {
	var acc *Pipe
	for _, p := range pipes {
		next, err := connectPair(acc, p)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// connectPair joins one upstream/downstream pair per the role table.
func connectPair(up, down *Pipe) (*Pipe, error) {
	if up == nil {
		return down, nil
	}
	if down == nil || up.consumed || down.consumed {
		return nil, errors.InvalidComposition(describe(up), describe(down))
	}

	switch {
	case up.role == RoleSource && down.role == RoleConduit:
		return NewSource(merge(up.force(), down.force())), nil
	case up.role == RoleConduit && down.role == RoleConduit:
		return NewConduit(merge(up.force(), down.force())), nil
	case up.role == RoleConduit && down.role == RoleSink:
		return NewSink(merge(up.force(), down.force())), nil
	case up.role == RoleSource && down.role == RoleSink:
		result, err := Run(merge(up.force(), down.force()))
		if err != nil {
			return nil, err
		}
		return completed(result), nil
	default:
		return nil, errors.InvalidComposition(describe(up), describe(down))
	}
}
