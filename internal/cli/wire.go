package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/RevCBH/hookrunner/internal/config"
	"github.com/RevCBH/hookrunner/internal/events"
	"github.com/RevCBH/hookrunner/internal/hook"
	"github.com/RevCBH/hookrunner/internal/lifecycle"
	"github.com/RevCBH/hookrunner/internal/logging"
)

// eventBufferSize bounds the event queue between the manager and handlers
const eventBufferSize = 100

// Runtime holds all wired components for one lifecycle command
type Runtime struct {
	Config   *config.Config
	Logger   *zap.Logger
	Events   *events.Bus
	Registry *prometheus.Registry
	Invoker  *hook.Invoker
	Manager  *lifecycle.Manager
	JobID    string

	metricsOut string
}

// WireRuntime loads configuration and assembles the hook invoker and the
// lifecycle manager. Diagnostics and JSON events go to errOut.
func (a *App) WireRuntime(errOut io.Writer) (*Runtime, error) {
	dir, err := a.resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, errOut)
	if err != nil {
		return nil, err
	}

	jobID := ulid.Make().String()

	// Create event bus first (the manager publishes to it)
	bus := events.NewBus(eventBufferSize)
	bus.Subscribe(events.ZapHandler(logger))
	logger = logger.With(zap.String("job", jobID))
	if a.jsonEvents {
		bus.Subscribe(events.JSONEmitterHandler(events.NewJSONEmitter(errOut), logger))
	}

	registry := prometheus.NewRegistry()

	runner := a.runner
	if runner == nil {
		var echo io.Writer
		if a.verbose {
			echo = errOut
		}
		runner = hook.NewExecRunner(echo)
	}

	inv, err := hook.NewInvoker(hook.Options{
		HookPath:    cfg.Hook.Path,
		Interpreter: cfg.Hook.Interpreter,
		Env:         cfg.Hook.Env,
		Runner:      runner,
		Transport:   hook.NewFileTransport(cfg.TempDir),
		Logger:      logger,
		Metrics:     hook.NewMetrics(registry),
	})
	if err != nil {
		_ = bus.Close()
		return nil, err
	}

	manager := lifecycle.NewManager(inv,
		lifecycle.WithLogger(logger),
		lifecycle.WithEvents(bus),
		lifecycle.WithJobID(jobID),
	)

	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Events:     bus,
		Registry:   registry,
		Invoker:    inv,
		Manager:    manager,
		JobID:      jobID,
		metricsOut: a.metricsOut,
	}, nil
}

// Close drains pending events and writes the metrics file if requested
func (r *Runtime) Close() error {
	var errs []error
	if err := r.Events.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
	}
	if r.metricsOut != "" {
		if err := prometheus.WriteToTextfile(r.metricsOut, r.Registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	_ = r.Logger.Sync()
	return errors.Join(errs...)
}
