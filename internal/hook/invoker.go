package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Options configures an Invoker.
type Options struct {
	// HookPath is the hook index file; it runs from its own directory
	HookPath string

	// Interpreter runs HookPath (e.g. "node"); empty runs it directly
	Interpreter string

	// Env is extra environment passed to the hook
	Env map[string]string

	// Runner executes the process (required)
	Runner Runner

	// Transport correlates the response (required)
	Transport Transport

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// Metrics is optional
	Metrics *Metrics
}

// Invoker performs request/response round trips against the hook.
type Invoker struct {
	hookPath    string
	scriptDir   string
	interpreter string
	env         map[string]string
	runner      Runner
	transport   Transport
	logger      *zap.Logger
	metrics     *Metrics
}

// NewInvoker validates the hook location and returns an Invoker.
// Returns a *ConfigurationError if the hook path is unset or unresolvable.
func NewInvoker(opts Options) (*Invoker, error) {
	if opts.HookPath == "" {
		return nil, NewConfigurationError("", ErrHookPathUnset)
	}
	abs, err := filepath.Abs(opts.HookPath)
	if err != nil {
		return nil, NewConfigurationError(opts.HookPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, NewConfigurationError(abs, err)
	}
	if info.IsDir() {
		return nil, NewConfigurationError(abs, errors.New("hook path is a directory"))
	}
	if opts.Runner == nil {
		return nil, errors.New("hook invoker requires a runner")
	}
	if opts.Transport == nil {
		return nil, errors.New("hook invoker requires a transport")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Invoker{
		hookPath:    abs,
		scriptDir:   filepath.Dir(abs),
		interpreter: opts.Interpreter,
		env:         opts.Env,
		runner:      opts.Runner,
		transport:   opts.Transport,
		logger:      logger,
		metrics:     opts.Metrics,
	}, nil
}

// HookPath returns the resolved hook index path.
func (i *Invoker) HookPath() string {
	return i.hookPath
}

// Invoke sends one command to the hook and returns its decoded response.
// Execution failures are *ExecutionError, contract violations are
// *ProtocolError. Nothing is retried.
func (i *Invoker) Invoke(ctx context.Context, cmd Command, args Args) (*Response, error) {
	start := time.Now()
	log := i.logger.With(zap.String("command", string(cmd)))

	ch, err := i.transport.Open(ctx)
	if err != nil {
		i.metrics.observe(cmd, OutcomeExecutionError, time.Since(start))
		return nil, NewExecutionError(cmd, -1, "", err)
	}
	defer func() {
		if err := ch.Close(); err != nil {
			log.Warn("failed to remove hook response", zap.String("response_file", ch.Location()), zap.Error(err))
		}
	}()

	payload, err := EncodeRequest(Request{
		Command:      cmd,
		ResponseFile: ch.Location(),
		Args:         args,
	})
	if err != nil {
		i.metrics.observe(cmd, OutcomeExecutionError, time.Since(start))
		return nil, fmt.Errorf("encode %s request: %w", cmd, err)
	}

	log.Debug("invoking hook",
		zap.String("hook", i.hookPath),
		zap.String("response_file", ch.Location()),
		zap.Int("services", len(args.Services)))

	result, err := i.runner.Run(ctx, Execution{
		Interpreter: i.interpreter,
		Script:      i.hookPath,
		Stdin:       payload,
		Env:         i.env,
		Dir:         i.scriptDir,
	})
	if err != nil {
		i.metrics.observe(cmd, OutcomeExecutionError, time.Since(start))
		log.Warn("hook did not complete", zap.Error(err))
		return nil, NewExecutionError(cmd, result.ExitCode, result.Output, err)
	}
	if !result.Success {
		i.metrics.observe(cmd, OutcomeExecutionError, time.Since(start))
		log.Warn("hook failed", zap.Int("exit_code", result.ExitCode), zap.String("output", result.Output))
		return nil, NewExecutionError(cmd, result.ExitCode, result.Output, nil)
	}

	data, err := ch.Read()
	if err != nil {
		i.metrics.observe(cmd, OutcomeProtocolError, time.Since(start))
		return nil, withPath(err, ch.Location())
	}
	resp, err := DecodeResponse(cmd, data)
	if err != nil {
		i.metrics.observe(cmd, OutcomeProtocolError, time.Since(start))
		return nil, withPath(err, ch.Location())
	}

	elapsed := time.Since(start)
	i.metrics.observe(cmd, OutcomeSuccess, elapsed)
	log.Debug("hook completed", zap.Duration("duration", elapsed))
	return resp, nil
}

// withPath fills in the artifact path on a *ProtocolError, or wraps any
// other error as one.
func withPath(err error, path string) error {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		if perr.Path == "" {
			perr.Path = path
		}
		return perr
	}
	return NewProtocolError(path, err)
}
