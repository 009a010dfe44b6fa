// Package runner executes external command-line tools for the provisioner,
// capturing their combined output and optionally streaming it line by line.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxLineSize bounds a single streamed output line. git p4 prints long
// change descriptions on one line in verbose mode.
const maxLineSize = 1024 * 1024

// waitDelay bounds how long Wait blocks on output pipes held open by
// descendants after the process was cancelled.
const waitDelay = 5 * time.Second

// Command describes one external process invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // appended to the parent environment
	Stdin io.Reader
	// OnLine, when set, receives each output line (stdout and stderr merged)
	// as soon as it is read.
	OnLine func(line string)
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Output is what a finished process left behind.
type Output struct {
	Combined []byte
	ExitCode int
	Duration time.Duration
}

// Runner runs a Command to completion. Implementations return a non-nil
// Output alongside an *ExitError so callers may inspect or ignore a failed exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// NotFoundError is returned when the executable cannot be resolved.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found on PATH: %v", e.Name, e.Err)
}
func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitError is returned when the process exits with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Output  []byte
	Err     error
}

func (e *ExitError) Error() string {
	tail := lastLines(e.Output, 5)
	if tail == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.Code, tail)
}
func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run starts cmd, drains its merged stdout/stderr and waits for it to exit.
// There is no timeout; cancelling ctx kills the process and its descendants.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: open stdout pipe: %w", c, err)
	}
	// Same pipe for stderr so diagnostics interleave with progress output.
	cmd.Stderr = cmd.Stdout

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: c.Name, Err: err}
		}
		return nil, fmt.Errorf("%s: start: %w", c, err)
	}

	var combined bytes.Buffer
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		combined.WriteString(line)
		combined.WriteByte('\n')
		if c.OnLine != nil {
			c.OnLine(strings.TrimRight(line, "\r"))
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the pipe drained so the child does not block on a full buffer.
		_, _ = io.Copy(&combined, stdout)
	}

	waitErr := cmd.Wait()
	out := &Output{
		Combined: combined.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil && waitErr != nil {
		return out, fmt.Errorf("%s: %w", c, ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return out, &ExitError{Command: c.String(), Code: exitErr.ExitCode(), Output: out.Combined, Err: waitErr}
		}
		return out, fmt.Errorf("%s: wait: %w", c, waitErr)
	}
	if scanErr != nil {
		return out, fmt.Errorf("%s: read output: %w", c, scanErr)
	}
	return out, nil
}

func lastLines(b []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
