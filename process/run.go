package process

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	apperrors "github.com/flumehq/flume/errors"
)

const defaultGracePeriod = 5 * time.Second

// Run executes the command and blocks until the child exits. Canceling
// ctx sends SIGTERM to the child's process group, then SIGKILL once the
// grace period passes.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, apperrors.MissingField("binary")
	}

	c := newExecCmd(ctx, cmd)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: duration,
	}

	if err != nil {
		// ctx.Err() set means the caller stopped the run, not a child failure.
		if ctx.Err() != nil {
			return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
		}
		return result, fmt.Errorf("process: exit code %d: %w", result.ExitCode, err)
	}

	return result, nil
}

// newExecCmd builds the exec.Cmd shared by Run and the stream stages:
// own process group, SIGTERM on context cancel, SIGKILL once the grace
// period elapses.
func newExecCmd(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)

	// A fresh process group lets terminate signal the whole tree.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Replace exec.CommandContext's default hard kill with SIGTERM
	// to the group.
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = graceOf(cmd)
	return c
}

func graceOf(cmd Command) time.Duration {
	if cmd.GracePeriod > 0 {
		return cmd.GracePeriod
	}
	return defaultGracePeriod
}

// terminate reaps a subprocess the pipeline no longer needs: SIGTERM to
// the process group, SIGKILL if it is still running after grace.
func terminate(c *exec.Cmd, grace time.Duration) {
	if c.Process == nil {
		return
	}
	_ = syscall.Kill(-c.Process.Pid, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		_ = c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		_ = syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		<-done
	}
}

// mergeEnv layers extra entries over the inherited environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
