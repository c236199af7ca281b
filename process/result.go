package process

import "time"

// Result is what Run hands back once the child exits.
type Result struct {
	// Stdout holds everything the child wrote to standard output.
	Stdout []byte
	// Stderr holds everything the child wrote to standard error.
	Stderr []byte
	// ExitCode is the child's exit status, -1 when it was killed.
	ExitCode int
	// Duration measures start to exit.
	Duration time.Duration
}

// SinkSummary is the pipeline result produced by LineSink.
type SinkSummary struct {
	// Lines is the number of lines written to the process's stdin.
	Lines int
	// ExitCode is the process exit code. -1 if the process was killed
	// or never started.
	ExitCode int
	// Stdout is the captured standard output of the sink process.
	Stdout []byte
	// Err is set when the process failed or upstream ended with an error.
	Err error
}
