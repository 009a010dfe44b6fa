package runner

import (
	"context"
	"io"
	"strings"
	"sync"
)

// Call is a Command recorded by FakeRunner, with stdin already read.
type Call struct {
	Command Command
	Stdin   string
}

// FakeRunner is a scripted Runner for tests. RunFunc decides the outcome;
// when nil every command succeeds with empty output. Lines in the returned
// Output are replayed through OnLine.
type FakeRunner struct {
	RunFunc func(ctx context.Context, cmd Command, stdin string) (*Output, error)

	mu    sync.Mutex
	calls []Call
}

// Verify FakeRunner implements Runner at compile time
var _ Runner = (*FakeRunner)(nil)

// Run implements Runner
func (f *FakeRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	var stdin string
	if cmd.Stdin != nil {
		data, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return nil, err
		}
		stdin = string(data)
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Command: cmd, Stdin: stdin})
	f.mu.Unlock()

	out := &Output{}
	var err error
	if f.RunFunc != nil {
		out, err = f.RunFunc(ctx, cmd, stdin)
	}
	if out != nil && cmd.OnLine != nil {
		for _, line := range strings.Split(strings.TrimRight(string(out.Combined), "\n"), "\n") {
			if line != "" {
				cmd.OnLine(line)
			}
		}
	}
	return out, err
}

// Calls returns the recorded invocations in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
