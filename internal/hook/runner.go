package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Execution describes one run of the hook executable.
type Execution struct {
	// Interpreter runs Script (e.g. "node"); empty runs Script directly
	Interpreter string

	// Script is the hook entrypoint
	Script string

	// Args are appended after Script
	Args []string

	// Stdin is written to the process's standard input
	Stdin []byte

	// Env is added on top of the current process environment
	Env map[string]string

	// Dir is the working directory
	Dir string
}

// Result is the outcome reported by a Runner.
type Result struct {
	Success  bool
	ExitCode int
	Output   string
}

// Runner executes the hook process. A process that ran and exited non-zero
// is a Result with Success false; an error means it could not run or the
// context ended first.
type Runner interface {
	Run(ctx context.Context, exec Execution) (Result, error)
}

// DefaultWaitDelay is how long Run waits for the hook's output to close
// after the process was killed.
const DefaultWaitDelay = 5 * time.Second

// ExecRunner runs the hook as a local process. The hook gets its own
// process group so cancellation also kills anything it spawned.
type ExecRunner struct {
	// Echo receives the hook's combined output as it is produced (optional)
	Echo io.Writer

	// WaitDelay bounds the wait for output after cancellation
	WaitDelay time.Duration
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(echo io.Writer) *ExecRunner {
	return &ExecRunner{Echo: echo, WaitDelay: DefaultWaitDelay}
}

// Run starts the process and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, e Execution) (Result, error) {
	name, args := e.Script, e.Args
	if e.Interpreter != "" {
		name = e.Interpreter
		args = append([]string{e.Script}, e.Args...)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Stdin = bytes.NewReader(e.Stdin)
	cmd.Env = mergeEnv(os.Environ(), e.Env)
	cmd.WaitDelay = r.WaitDelay
	setProcessGroup(cmd)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var out io.Writer = buf
	if r.Echo != nil {
		out = io.MultiWriter(buf, r.Echo)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	output := buf.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Output: output}, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: output}, nil
		}
		return Result{Output: output}, fmt.Errorf("run %s: %w", name, err)
	}

	return Result{Success: true, Output: output}, nil
}

// mergeEnv appends extra as KEY=VALUE pairs in a stable order. Later
// entries win in exec, so extra overrides base.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(keys))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// Verify ExecRunner implements Runner interface
var _ Runner = (*ExecRunner)(nil)
