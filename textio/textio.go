// Package textio provides line-oriented file and reader stages. Sources
// open their file when the pipeline is connected and register a cleanup
// that closes it even when the pipeline stops early or panics; sinks
// buffer writes and flush on completion. Items are strings or byte
// slices written as-is; anything else is JSON-encoded, one value per
// line.
package textio

import (
	"encoding/json"
	"fmt"

	"github.com/flumehq/flume/util"
)

// defaultMaxLineSize bounds a single scanned line.
const defaultMaxLineSize = 1024 * 1024

type options struct {
	maxLineSize int
	sanitize    bool
}

// Option configures a source stage.
type Option func(*options)

// WithMaxLineSize sets the longest line a source will read, given as a
// human-readable size such as "64KB" or "4MB". Unparseable values keep
// the 1MB default.
func WithMaxLineSize(size string) Option {
	return func(o *options) {
		o.maxLineSize = int(util.ParseSize(size, defaultMaxLineSize))
	}
}

// WithSanitize routes every scanned line through util.SanitizeString
// before it enters the pipeline, trimming surrounding whitespace and
// dropping control characters. Turn it on when the file comes from
// outside the system.
func WithSanitize() Option {
	return func(o *options) {
		o.sanitize = true
	}
}

func applyOptions(opts []Option) options {
	o := options{maxLineSize: defaultMaxLineSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// formatLine renders an item as one newline-terminated line.
func formatLine(item interface{}) (string, error) {
	switch v := item.(type) {
	case string:
		return v + "\n", nil
	case []byte:
		return string(v) + "\n", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode line: %w", err)
		}
		return string(data) + "\n", nil
	}
}
