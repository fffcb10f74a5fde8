package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/RevCBH/hookrunner/internal/hook"
)

// FakeResponse scripts how the fake hook reacts to one invocation.
type FakeResponse struct {
	// Body is written to the response file when non-empty
	Body string

	// ExitCode other than 0 reports failure
	ExitCode int

	// Output is returned as the process output
	Output string

	// Err is returned from Run, as if the process could not run
	Err error

	// RemoveFile deletes the response file instead of writing it
	RemoveFile bool

	// OnRun is called with the decoded request before anything else
	OnRun func(req hook.Request)
}

// FakeRunner plays the hook executable: it decodes the request from stdin
// and writes a queued response to the file the request names.
type FakeRunner struct {
	mu         sync.Mutex
	responses  map[hook.Command][]FakeResponse
	defaults   map[hook.Command]FakeResponse
	requests   []hook.Request
	executions []hook.Execution
}

// NewFakeRunner creates a FakeRunner with no scripted responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[hook.Command][]FakeResponse),
		defaults:  make(map[hook.Command]FakeResponse),
	}
}

// Respond queues a response for the next invocation of cmd.
func (f *FakeRunner) Respond(cmd hook.Command, resp FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = append(f.responses[cmd], resp)
}

// RespondDefault sets the response used once the queue for cmd is empty.
func (f *FakeRunner) RespondDefault(cmd hook.Command, resp FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaults[cmd] = resp
}

// RespondJSON queues v, marshaled, as the response body for cmd.
func (f *FakeRunner) RespondJSON(cmd hook.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.Respond(cmd, FakeResponse{Body: string(data)})
	return nil
}

// Run implements hook.Runner.
func (f *FakeRunner) Run(ctx context.Context, e hook.Execution) (hook.Result, error) {
	if err := ctx.Err(); err != nil {
		return hook.Result{}, err
	}

	req, err := hook.DecodeRequest(e.Stdin)
	if err != nil {
		return hook.Result{}, fmt.Errorf("fake hook: %w", err)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.executions = append(f.executions, e)
	resp, ok := f.next(req.Command)
	f.mu.Unlock()

	if !ok {
		return hook.Result{}, fmt.Errorf("unexpected hook call: %s", req.Command)
	}
	if resp.OnRun != nil {
		resp.OnRun(req)
	}
	if resp.Err != nil {
		return hook.Result{Output: resp.Output}, resp.Err
	}

	switch {
	case resp.RemoveFile:
		if err := os.Remove(req.ResponseFile); err != nil {
			return hook.Result{}, fmt.Errorf("fake hook: %w", err)
		}
	case resp.Body != "":
		if err := os.WriteFile(req.ResponseFile, []byte(resp.Body), 0644); err != nil {
			return hook.Result{}, fmt.Errorf("fake hook: %w", err)
		}
	}

	return hook.Result{
		Success:  resp.ExitCode == 0,
		ExitCode: resp.ExitCode,
		Output:   resp.Output,
	}, nil
}

// next pops the queued response for cmd. Caller holds f.mu.
func (f *FakeRunner) next(cmd hook.Command) (FakeResponse, bool) {
	queue := f.responses[cmd]
	if len(queue) == 0 {
		resp, ok := f.defaults[cmd]
		return resp, ok
	}
	f.responses[cmd] = queue[1:]
	return queue[0], true
}

// Requests returns every decoded request in call order.
func (f *FakeRunner) Requests() []hook.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]hook.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Executions returns every execution in call order.
func (f *FakeRunner) Executions() []hook.Execution {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]hook.Execution, len(f.executions))
	copy(out, f.executions)
	return out
}

// CallsFor counts invocations of cmd.
func (f *FakeRunner) CallsFor(cmd hook.Command) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, req := range f.requests {
		if req.Command == cmd {
			count++
		}
	}
	return count
}

// Verify FakeRunner implements Runner interface
var _ hook.Runner = (*FakeRunner)(nil)
