package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/flumehq/flume/conduit"
	apperrors "github.com/flumehq/flume/errors"
	"github.com/flumehq/flume/logger"
)

// maxLineSize bounds a single stdout line read by LineSource.
const maxLineSize = 1024 * 1024

// LineSource returns a Source that starts the command when the pipeline
// is connected and yields one stdout line per downstream pull. When
// stdout is exhausted the process is waited for; a non-zero exit becomes
// the error-valued result. If the pipeline stops before the output is
// drained, the registered cleanup terminates the process group.
func LineSource(ctx context.Context, cmd Command, log *logger.Logger) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step {
		if cmd.Binary == "" {
			return &conduit.Done{Result: apperrors.MissingField("binary")}
		}

		c := newExecCmd(ctx, cmd)
		if cmd.Stdin != nil {
			c.Stdin = cmd.Stdin
		}
		var stderr bytes.Buffer
		c.Stderr = &stderr

		stdout, err := c.StdoutPipe()
		if err != nil {
			return &conduit.Done{Result: fmt.Errorf("process source: stdout pipe: %w", err)}
		}
		if err := c.Start(); err != nil {
			return &conduit.Done{Result: fmt.Errorf("process source: start %s: %w", cmd.Binary, err)}
		}

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		src := &lineSource{
			ctx:     ctx,
			cmd:     c,
			binary:  cmd.Binary,
			scanner: scanner,
			stderr:  &stderr,
			grace:   graceOf(cmd),
			log:     log.WithComponent("process.source"),
		}
		src.log.Info("Process source started", map[string]interface{}{
			"binary": cmd.Binary,
			"pid":    c.Process.Pid,
		})
		return &conduit.RegisterCleanup{Action: src.stop, Next: src.next}
	})
}

type lineSource struct {
	ctx     context.Context
	cmd     *exec.Cmd
	binary  string
	scanner *bufio.Scanner
	stderr  *bytes.Buffer
	grace   time.Duration
	log     *logger.Logger
	reaped  bool
}

func (s *lineSource) next() conduit.Step {
	if s.ctx.Err() != nil {
		return s.finish()
	}
	if s.scanner.Scan() {
		return &conduit.HaveOutput{Value: s.scanner.Text(), Next: s.next}
	}
	return s.finish()
}

// finish reaps the exited process and turns its status into the result.
func (s *lineSource) finish() conduit.Step {
	s.reaped = true
	scanErr := s.scanner.Err()
	waitErr := s.cmd.Wait()

	if s.ctx.Err() != nil {
		s.log.Info("Process source canceled", map[string]interface{}{"binary": s.binary})
		return &conduit.Done{Result: nil}
	}
	if scanErr != nil {
		return &conduit.Done{Result: fmt.Errorf("process source: read %s stdout: %w", s.binary, scanErr)}
	}
	if waitErr != nil {
		err := exitError("process source", s.binary, waitErr, s.stderr)
		s.log.Error("Process source failed", map[string]interface{}{
			"binary": s.binary,
			"error":  err.Error(),
		})
		return &conduit.Done{Result: err}
	}

	s.log.Debug("Process source drained", map[string]interface{}{"binary": s.binary})
	return &conduit.Done{Result: nil}
}

// stop terminates the process when the pipeline ends before stdout is
// drained. A no-op once finish has reaped the process.
func (s *lineSource) stop() {
	if s.reaped {
		return
	}
	s.reaped = true
	s.log.Debug("Stopping process source", map[string]interface{}{"binary": s.binary})
	terminate(s.cmd, s.grace)
}

// LineSink returns a Sink that starts the command when the pipeline is
// connected and writes each item to its stdin as one line. When upstream
// finishes, stdin is closed and the process waited for; the result is a
// SinkSummary carrying the line count, exit code and captured stdout.
func LineSink(ctx context.Context, cmd Command, log *logger.Logger) *conduit.Pipe {
	return conduit.DeferSink(func() conduit.Step {
		if cmd.Binary == "" {
			return &conduit.Done{Result: SinkSummary{ExitCode: -1, Err: apperrors.MissingField("binary")}}
		}

		c := newExecCmd(ctx, cmd)
		var stdout, stderr bytes.Buffer
		c.Stdout = &stdout
		c.Stderr = &stderr

		stdin, err := c.StdinPipe()
		if err != nil {
			return &conduit.Done{Result: SinkSummary{ExitCode: -1, Err: fmt.Errorf("process sink: stdin pipe: %w", err)}}
		}
		if err := c.Start(); err != nil {
			return &conduit.Done{Result: SinkSummary{ExitCode: -1, Err: fmt.Errorf("process sink: start %s: %w", cmd.Binary, err)}}
		}

		snk := &lineSink{
			cmd:    c,
			binary: cmd.Binary,
			stdin:  stdin,
			stdout: &stdout,
			stderr: &stderr,
			grace:  graceOf(cmd),
			log:    log.WithComponent("process.sink"),
		}
		snk.log.Info("Process sink started", map[string]interface{}{
			"binary": cmd.Binary,
			"pid":    c.Process.Pid,
		})
		return &conduit.RegisterCleanup{Action: snk.stop, Next: snk.accept}
	})
}

type lineSink struct {
	cmd    *exec.Cmd
	binary string
	stdin  io.WriteCloser
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	grace  time.Duration
	log    *logger.Logger
	lines  int
	reaped bool
}

func (s *lineSink) accept() conduit.Step {
	return &conduit.NeedInput{OnValue: s.feed, OnDone: s.finish}
}

func (s *lineSink) feed(item interface{}) conduit.Step {
	line, err := encodeLine(item)
	if err != nil {
		sum := s.reap()
		sum.Err = err
		return &conduit.Done{Result: sum}
	}
	if _, err := s.stdin.Write(line); err != nil {
		// The process stopped reading stdin. Its exit status decides
		// whether that was deliberate (head-style) or a crash; reap
		// reports accordingly.
		return &conduit.Done{Result: s.reap()}
	}
	s.lines++
	return s.accept()
}

func (s *lineSink) finish(result interface{}) conduit.Step {
	sum := s.reap()
	if err := conduit.ResultError(result); err != nil {
		sum.Err = err
	}
	return &conduit.Done{Result: sum}
}

// reap closes stdin, waits for the process and builds the summary.
func (s *lineSink) reap() SinkSummary {
	s.reaped = true
	_ = s.stdin.Close()
	waitErr := s.cmd.Wait()

	sum := SinkSummary{
		Lines:    s.lines,
		ExitCode: s.cmd.ProcessState.ExitCode(),
		Stdout:   s.stdout.Bytes(),
	}
	if waitErr != nil {
		sum.Err = exitError("process sink", s.binary, waitErr, s.stderr)
		s.log.Error("Process sink failed", map[string]interface{}{
			"binary": s.binary,
			"error":  sum.Err.Error(),
		})
		return sum
	}

	s.log.Info("Process sink finished", map[string]interface{}{
		"binary": s.binary,
		"lines":  sum.Lines,
	})
	return sum
}

// stop terminates the process if the pipeline ends without reaching the
// sink's own completion path (a panic elsewhere in the pipeline).
func (s *lineSink) stop() {
	if s.reaped {
		return
	}
	s.reaped = true
	_ = s.stdin.Close()
	terminate(s.cmd, s.grace)
}

// exitError wraps a Wait failure, appending captured stderr when present.
func exitError(stage, binary string, waitErr error, stderr *bytes.Buffer) error {
	err := fmt.Errorf("%s: %s: %w", stage, binary, waitErr)
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		err = fmt.Errorf("%w (stderr: %s)", err, msg)
	}
	return err
}

// encodeLine renders an item as one newline-terminated stdin line.
// Strings and byte slices pass through; everything else is JSON.
func encodeLine(item interface{}) ([]byte, error) {
	switch v := item.(type) {
	case string:
		return []byte(v + "\n"), nil
	case []byte:
		line := make([]byte, 0, len(v)+1)
		line = append(line, v...)
		return append(line, '\n'), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("process sink: encode item: %w", err)
		}
		return append(data, '\n'), nil
	}
}
