// Package lifecycle drives a job's containers through the hook: it builds
// the arguments for each lifecycle command from the container set and
// writes the hook's answer back into the containers and the job context.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/RevCBH/hookrunner/internal/container"
	"github.com/RevCBH/hookrunner/internal/events"
	"github.com/RevCBH/hookrunner/internal/hook"
	"github.com/RevCBH/hookrunner/internal/jobctx"
)

// Invoker performs one round trip with the hook.
type Invoker interface {
	Invoke(ctx context.Context, cmd hook.Command, args hook.Args) (*hook.Response, error)
}

// JobContext receives the ids and networks published by PrepareJob.
type JobContext interface {
	SetContainerValue(key, value string)
	SetService(alias string, svc jobctx.Service)
}

var supported = []hook.Command{hook.CommandPrepareJob, hook.CommandCleanupJob}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger (default: no-op)
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEvents sets the bus lifecycle events are emitted on
func WithEvents(bus *events.Bus) Option {
	return func(m *Manager) {
		m.events = bus
	}
}

// WithJobID tags emitted events with the job run ID
func WithJobID(id string) Option {
	return func(m *Manager) {
		m.jobID = id
	}
}

// Manager runs lifecycle operations for one job's container set.
type Manager struct {
	invoker Invoker
	logger  *zap.Logger
	events  *events.Bus
	jobID   string
}

// NewManager creates a Manager that talks to the hook through invoker.
func NewManager(invoker Invoker, opts ...Option) *Manager {
	m := &Manager{
		invoker: invoker,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Capabilities returns the lifecycle commands this manager implements.
func (m *Manager) Capabilities() []hook.Command {
	out := make([]hook.Command, len(supported))
	copy(out, supported)
	return out
}

// Supports reports whether cmd is in the capability set.
func (m *Manager) Supports(cmd hook.Command) bool {
	for _, c := range supported {
		if c == cmd {
			return true
		}
	}
	return false
}

// PrepareJob asks the hook to create the job container and its services,
// then records the assigned ids and networks. On any error nothing is
// written to the containers or to jobCtx.
func (m *Manager) PrepareJob(ctx context.Context, jobCtx JobContext, containers []*container.ContainerInfo) error {
	const phase = hook.CommandPrepareJob
	m.emit(events.NewEvent(events.JobPrepareStarted, m.jobID).WithCommand(string(phase)))

	if err := m.prepareJob(ctx, jobCtx, containers); err != nil {
		err = NewPhaseError(phase, err)
		m.emit(events.NewEvent(events.JobPrepareFailed, m.jobID).WithCommand(string(phase)).WithError(err))
		return err
	}

	m.emit(events.NewEvent(events.JobPrepareCompleted, m.jobID).WithCommand(string(phase)))
	return nil
}

func (m *Manager) prepareJob(ctx context.Context, jobCtx JobContext, containers []*container.ContainerInfo) error {
	job, services := container.Partition(containers)
	if job == nil {
		return container.ErrNoJobContainer
	}

	jobSpec := job.HookContainer()
	m.logger.Debug("preparing job",
		zap.String("image", job.ContainerImage),
		zap.Int("services", len(services)))
	resp, err := m.invoker.Invoke(ctx, hook.CommandPrepareJob, hook.Args{
		Container: &jobSpec,
		Services:  container.HookContainers(services),
	})
	if err != nil {
		return err
	}

	// Services are matched to the request by position.
	if len(resp.Services) > len(services) {
		return hook.NewProtocolError("", fmt.Errorf(
			"hook returned %d services for %d requested", len(resp.Services), len(services)))
	}
	if resp.Container == nil {
		return hook.NewProtocolError("", errors.New("response has no container"))
	}

	job.ContainerID = container.ContainerID(resp.Container.ID)
	job.ContainerNetwork = resp.Container.Network
	jobCtx.SetContainerValue(jobctx.KeyID, resp.Container.ID)
	jobCtx.SetContainerValue(jobctx.KeyNetwork, resp.Container.Network)

	for i, result := range resp.Services {
		svc := services[i]
		svc.ContainerID = container.ContainerID(result.ID)
		svc.ContainerNetwork = result.Network
		jobCtx.SetService(svc.ContainerNetworkAlias, jobctx.Service{
			ID:      result.ID,
			Network: result.Network,
			Ports:   map[string]string{},
		})
		m.emit(events.NewEvent(events.ServicePublished, m.jobID).WithPayload(map[string]string{
			"alias":   svc.ContainerNetworkAlias,
			"id":      result.ID,
			"network": result.Network,
		}))
	}

	return nil
}

// CleanupJob asks the hook to release the job's containers. The response
// is accepted as is; failures are returned, never retried.
func (m *Manager) CleanupJob(ctx context.Context, containers []*container.ContainerInfo) error {
	const phase = hook.CommandCleanupJob
	m.emit(events.NewEvent(events.JobCleanupStarted, m.jobID).WithCommand(string(phase)))

	job, services := container.Partition(containers)
	args := hook.Args{
		Services: container.HookContainers(services),
		Network:  container.FirstNetwork(containers),
	}
	if job != nil {
		spec := job.HookContainer()
		args.Container = &spec
	}

	if _, err := m.invoker.Invoke(ctx, phase, args); err != nil {
		err = NewPhaseError(phase, err)
		m.emit(events.NewEvent(events.JobCleanupFailed, m.jobID).WithCommand(string(phase)).WithError(err))
		return err
	}

	m.emit(events.NewEvent(events.JobCleanupCompleted, m.jobID).WithCommand(string(phase)))
	return nil
}

// ContainerStep would run a step inside a hook-managed container.
// It always returns *hook.UnsupportedError.
func (m *Manager) ContainerStep(ctx context.Context) error {
	return m.unsupported(hook.CommandContainerStep)
}

// RunScriptStep would run a script step through the hook.
// It always returns *hook.UnsupportedError.
func (m *Manager) RunScriptStep(ctx context.Context) error {
	return m.unsupported(hook.CommandRunScriptStep)
}

func (m *Manager) unsupported(cmd hook.Command) error {
	err := &hook.UnsupportedError{Command: cmd}
	m.logger.Warn("unsupported hook command", zap.String("command", string(cmd)))
	m.emit(events.NewEvent(events.HookUnsupported, m.jobID).WithCommand(string(cmd)).WithError(err))
	return err
}

func (m *Manager) emit(e events.Event) {
	m.events.Emit(e)
}
