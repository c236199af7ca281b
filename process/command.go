// Package process runs subprocesses as pipeline stages: a one-shot Run
// for short commands, plus LineSource and LineSink that stream stdout
// and stdin line-by-line. All stages put the child in its own process
// group and tear it down with SIGTERM, then SIGKILL after a grace
// period, when the pipeline stops early.
package process

import (
	"io"
	"time"
)

// Command describes the subprocess a stage should run.
type Command struct {
	// Binary names the executable, either a path or something PATH
	// can resolve.
	Binary string
	// Args go to the child verbatim.
	Args []string
	// Dir is the child's working directory; empty inherits ours.
	Dir string
	// Env adds key=value entries on top of os.Environ.
	Env []string
	// Stdin provides input to Run and LineSource. LineSink owns the
	// stdin pipe and ignores this field.
	Stdin io.Reader
	// GracePeriod is the SIGTERM-to-SIGKILL window on early stop.
	// Zero means 5 seconds.
	GracePeriod time.Duration
}
