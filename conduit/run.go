package conduit

import (
	"github.com/flumehq/flume/errors"
)

// Run drives a fully composed step to its final result.
//
// A step reaching Run must no longer produce output; encountering
// HaveOutput is an invalid-run-state error (a source was connected where
// a sink belongs). A step that still needs input is told upstream is
// exhausted. Cleanup requests open deferred obligations in Run's own
// frame, so registered actions fire in reverse-registration order once
// the drive finishes — and still fire, in the same order, when user code
// panics out of a continuation.
func Run(s Step) (result any, err error) {
	for {
		switch cur := s.(type) {
		case *NeedInput:
			s = cur.OnDone(nil)
		case *HaveOutput:
			return nil, errors.InvalidRunState(stateName(cur))
		case *Done:
			return cur.Result, nil
		case *RegisterCleanup:
			defer cur.Action()
			s = cur.Next()
		default:
			return nil, errors.InvalidRunState(stateName(s))
		}
	}
}
