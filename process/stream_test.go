package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flumehq/flume/conduit"
	apperrors "github.com/flumehq/flume/errors"
	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/operators"
)

func quietLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(&logger.Config{Level: "error", Format: "json"}, "process-test")
}

// runPipe connects the pipes and returns the completed result.
func runPipe(t *testing.T, pipes ...*conduit.Pipe) interface{} {
	t.Helper()
	p, err := conduit.Connect(pipes...)
	if err != nil {
		t.Fatal(err)
	}
	result, err := p.Result()
	if err != nil {
		t.Fatal(err)
	}
	return result
}

// resultSink discards items and forwards the upstream result, so source
// errors stay visible to assertions.
func resultSink() *conduit.Pipe {
	var step func() conduit.Step
	step = func() conduit.Step {
		return &conduit.NeedInput{
			OnValue: func(interface{}) conduit.Step { return step() },
			OnDone:  func(result interface{}) conduit.Step { return &conduit.Done{Result: result} },
		}
	}
	return conduit.DeferSink(step)
}

func TestLineSource_CollectsLines(t *testing.T) {
	result := runPipe(t,
		LineSource(context.Background(), Command{
			Binary: "sh",
			Args:   []string{"-c", `printf 'alpha\nbeta\ngamma\n'`},
		}, quietLogger(t)),
		operators.Collect(),
	)

	lines, err := operators.CollectAs[string](result)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %v, want %v", len(lines), lines, want)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], w)
		}
	}
}

func TestLineSource_StdinPassthrough(t *testing.T) {
	result := runPipe(t,
		LineSource(context.Background(), Command{
			Binary: "cat",
			Stdin:  strings.NewReader("a\nb\n"),
		}, quietLogger(t)),
		operators.Collect(),
	)

	lines, err := operators.CollectAs[string](result)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("lines = %v, want [a b]", lines)
	}
}

func TestLineSource_ExitFailure(t *testing.T) {
	result := runPipe(t,
		LineSource(context.Background(), Command{
			Binary: "sh",
			Args:   []string{"-c", "echo partial; echo broken >&2; exit 3"},
		}, quietLogger(t)),
		resultSink(),
	)

	err := conduit.ResultError(result)
	if err == nil {
		t.Fatalf("result = %v, want exit error", result)
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("error = %v, want exit status 3", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error = %v, want captured stderr", err)
	}
}

func TestLineSource_EarlyTerminationKillsProcess(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "terminated")
	script := fmt.Sprintf("trap 'touch %s; exit 0' TERM; echo one; echo two; echo three; sleep 10", marker)

	result := runPipe(t,
		LineSource(context.Background(), Command{
			Binary:      "sh",
			Args:        []string{"-c", script},
			GracePeriod: 3 * time.Second,
		}, quietLogger(t)),
		operators.Take(2),
		operators.Collect(),
	)

	lines, err := operators.CollectAs[string](result)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// Cleanup runs before the pipeline returns, so the trap has fired.
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("process was not terminated: %v", err)
	}
}

func TestLineSource_MissingBinary(t *testing.T) {
	result := runPipe(t,
		LineSource(context.Background(), Command{}, quietLogger(t)),
		resultSink(),
	)

	err := conduit.ResultError(result)
	if err == nil {
		t.Fatal("expected error for empty binary")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeMissingField {
		t.Errorf("code = %v, want MISSING_FIELD", apperrors.CodeOf(err))
	}
}

func TestLineSource_StartFailure(t *testing.T) {
	result := runPipe(t,
		LineSource(context.Background(), Command{
			Binary: "/nonexistent/flume-test-binary",
		}, quietLogger(t)),
		resultSink(),
	)

	err := conduit.ResultError(result)
	if err == nil || !strings.Contains(err.Error(), "start") {
		t.Fatalf("error = %v, want start failure", err)
	}
}

func TestLineSink_FeedsStdin(t *testing.T) {
	result := runPipe(t,
		operators.FromSlice([]interface{}{"one", "two", "three"}),
		LineSink(context.Background(), Command{Binary: "cat"}, quietLogger(t)),
	)

	sum, ok := result.(SinkSummary)
	if !ok {
		t.Fatalf("result = %T, want SinkSummary", result)
	}
	if sum.Err != nil {
		t.Fatalf("summary.Err = %v", sum.Err)
	}
	if sum.Lines != 3 {
		t.Errorf("Lines = %d, want 3", sum.Lines)
	}
	if sum.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", sum.ExitCode)
	}
	if got := string(sum.Stdout); got != "one\ntwo\nthree\n" {
		t.Errorf("Stdout = %q", got)
	}
}

func TestLineSink_EncodesJSON(t *testing.T) {
	type job struct {
		N int `json:"n"`
	}
	result := runPipe(t,
		operators.FromSlice([]interface{}{job{N: 7}}),
		LineSink(context.Background(), Command{Binary: "cat"}, quietLogger(t)),
	)

	sum := result.(SinkSummary)
	if sum.Err != nil {
		t.Fatal(sum.Err)
	}
	if got := string(sum.Stdout); got != "{\"n\":7}\n" {
		t.Errorf("Stdout = %q", got)
	}
}

func TestLineSink_ExitFailure(t *testing.T) {
	result := runPipe(t,
		operators.FromSlice([]interface{}{"only"}),
		LineSink(context.Background(), Command{
			Binary: "sh",
			Args:   []string{"-c", "read line; echo bad >&2; exit 9"},
		}, quietLogger(t)),
	)

	sum := result.(SinkSummary)
	if sum.Err == nil {
		t.Fatal("summary.Err = nil, want exit error")
	}
	if !strings.Contains(sum.Err.Error(), "exit status 9") {
		t.Errorf("Err = %v, want exit status 9", sum.Err)
	}
	if !strings.Contains(sum.Err.Error(), "bad") {
		t.Errorf("Err = %v, want captured stderr", sum.Err)
	}
	if sum.ExitCode != 9 {
		t.Errorf("ExitCode = %d, want 9", sum.ExitCode)
	}
}

func TestLineSink_ProcessClosesStdinEarly(t *testing.T) {
	items := make([]interface{}, 1000)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}

	result := runPipe(t,
		operators.FromSlice(items),
		LineSink(context.Background(), Command{
			Binary: "head",
			Args:   []string{"-n", "1"},
		}, quietLogger(t)),
	)

	// head exits cleanly after one line; refused writes are not a failure.
	sum := result.(SinkSummary)
	if sum.Err != nil {
		t.Fatalf("summary.Err = %v", sum.Err)
	}
	if sum.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", sum.ExitCode)
	}
	if got := string(sum.Stdout); got != "item-0\n" {
		t.Errorf("Stdout = %q, want first item", got)
	}
}

func TestLineSink_UpstreamError(t *testing.T) {
	srcErr := fmt.Errorf("upstream broke")

	result := runPipe(t,
		conduit.NewSource(&conduit.Done{Result: srcErr}),
		LineSink(context.Background(), Command{Binary: "cat"}, quietLogger(t)),
	)

	sum := result.(SinkSummary)
	if sum.Err != srcErr {
		t.Errorf("Err = %v, want %v", sum.Err, srcErr)
	}
	if sum.Lines != 0 {
		t.Errorf("Lines = %d, want 0", sum.Lines)
	}
}

func TestLineSink_MissingBinary(t *testing.T) {
	result := runPipe(t,
		operators.FromSlice([]interface{}{"x"}),
		LineSink(context.Background(), Command{}, quietLogger(t)),
	)

	sum := result.(SinkSummary)
	if apperrors.CodeOf(sum.Err) != apperrors.ErrCodeMissingField {
		t.Errorf("Err = %v, want MISSING_FIELD", sum.Err)
	}
	if sum.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", sum.ExitCode)
	}
}

func TestProcessPipeline(t *testing.T) {
	result := runPipe(t,
		LineSource(context.Background(), Command{
			Binary: "sh",
			Args:   []string{"-c", `printf 'a\nb\n'`},
		}, quietLogger(t)),
		operators.MapFn(strings.ToUpper),
		LineSink(context.Background(), Command{Binary: "cat"}, quietLogger(t)),
	)

	sum := result.(SinkSummary)
	if sum.Err != nil {
		t.Fatal(sum.Err)
	}
	if sum.Lines != 2 {
		t.Errorf("Lines = %d, want 2", sum.Lines)
	}
	if got := string(sum.Stdout); got != "A\nB\n" {
		t.Errorf("Stdout = %q", got)
	}
}

func TestEncodeLine(t *testing.T) {
	tests := []struct {
		name    string
		item    interface{}
		want    string
		wantErr bool
	}{
		{name: "string", item: "hello", want: "hello\n"},
		{name: "bytes", item: []byte("raw"), want: "raw\n"},
		{name: "struct", item: struct {
			K string `json:"k"`
		}{K: "v"}, want: "{\"k\":\"v\"}\n"},
		{name: "unencodable", item: make(chan int), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeLine(tt.item)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("encodeLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
