package textio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/util"
)

// LineSource returns a Source yielding the lines of the file at path.
// The file is opened when the pipeline is connected; the registered
// cleanup closes it regardless of how the pipeline ends. A scanner
// failure (including a line over the size limit) becomes the
// error-valued result.
func LineSource(path string, opts ...Option) *conduit.Pipe {
	o := applyOptions(opts)
	return conduit.DeferSource(func() conduit.Step {
		f, err := os.Open(path)
		if err != nil {
			return &conduit.Done{Result: fmt.Errorf("open %s: %w", path, err)}
		}
		src := newLineReader(f, o)
		return &conduit.RegisterCleanup{
			Action: func() { _ = f.Close() },
			Next:   src.next,
		}
	})
}

// ReaderSource returns a Source yielding the lines of r. The caller
// keeps ownership of r and closes it if needed.
func ReaderSource(r io.Reader, opts ...Option) *conduit.Pipe {
	o := applyOptions(opts)
	return conduit.DeferSource(func() conduit.Step {
		return newLineReader(r, o).next()
	})
}

type lineReader struct {
	scanner  *bufio.Scanner
	sanitize bool
}

func newLineReader(r io.Reader, o options) *lineReader {
	// The scanner's effective limit is the larger of the max and the
	// initial capacity, so the initial buffer must not exceed the max.
	initial := 64 * 1024
	if o.maxLineSize < initial {
		initial = o.maxLineSize
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, initial), o.maxLineSize)
	return &lineReader{scanner: s, sanitize: o.sanitize}
}

func (l *lineReader) next() conduit.Step {
	if l.scanner.Scan() {
		line := l.scanner.Text()
		if l.sanitize {
			line = util.SanitizeString(line)
		}
		return &conduit.HaveOutput{Value: line, Next: l.next}
	}
	if err := l.scanner.Err(); err != nil {
		return &conduit.Done{Result: fmt.Errorf("read lines: %w", err)}
	}
	return &conduit.Done{Result: nil}
}
