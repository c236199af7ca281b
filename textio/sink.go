package textio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/flumehq/flume/conduit"
)

// LineSink returns a Sink writing one line per item to the file at
// path, created (or truncated) when the pipeline is connected. Writes
// are buffered; completion flushes and closes the file, and the result
// is the number of lines written, or the first error. The registered
// cleanup releases the file if the pipeline ends abnormally.
func LineSink(path string) *conduit.Pipe {
	return conduit.DeferSink(func() conduit.Step {
		f, err := os.Create(path)
		if err != nil {
			return &conduit.Done{Result: fmt.Errorf("create %s: %w", path, err)}
		}
		snk := &lineWriter{w: bufio.NewWriter(f), file: f, name: path}
		return &conduit.RegisterCleanup{
			Action: func() { _ = snk.release() },
			Next:   snk.accept,
		}
	})
}

// WriterSink returns a Sink writing one line per item to w. Writes are
// buffered and flushed on completion; w itself is never closed, the
// caller keeps ownership.
func WriterSink(w io.Writer) *conduit.Pipe {
	return conduit.DeferSink(func() conduit.Step {
		snk := &lineWriter{w: bufio.NewWriter(w), name: "writer"}
		return &conduit.RegisterCleanup{
			Action: func() { _ = snk.release() },
			Next:   snk.accept,
		}
	})
}

type lineWriter struct {
	w      *bufio.Writer
	file   *os.File // nil for WriterSink
	name   string
	lines  int
	closed bool
}

func (l *lineWriter) accept() conduit.Step {
	return &conduit.NeedInput{OnValue: l.write, OnDone: l.finish}
}

func (l *lineWriter) write(item interface{}) conduit.Step {
	line, err := formatLine(item)
	if err != nil {
		_ = l.release()
		return &conduit.Done{Result: err}
	}
	if _, err := l.w.WriteString(line); err != nil {
		_ = l.release()
		return &conduit.Done{Result: fmt.Errorf("write %s: %w", l.name, err)}
	}
	l.lines++
	return l.accept()
}

func (l *lineWriter) finish(result interface{}) conduit.Step {
	if err := conduit.ResultError(result); err != nil {
		_ = l.release()
		return &conduit.Done{Result: err}
	}
	if err := l.release(); err != nil {
		return &conduit.Done{Result: err}
	}
	return &conduit.Done{Result: l.lines}
}

// release flushes and closes at most once. Flush errors surface here so
// the completion path can report them as the result.
func (l *lineWriter) release() error {
	if l.closed {
		return nil
	}
	l.closed = true

	ferr := l.w.Flush()
	var cerr error
	if l.file != nil {
		cerr = l.file.Close()
	}
	if ferr != nil {
		return fmt.Errorf("flush %s: %w", l.name, ferr)
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", l.name, cerr)
	}
	return nil
}
