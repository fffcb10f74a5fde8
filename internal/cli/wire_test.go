package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/hookrunner/internal/hook"
)

func TestWireRuntime_AllComponents(t *testing.T) {
	env := newTestEnv(t)
	app := New()
	app.configDir = env.dir
	app.SetRunner(env.runner)

	rt, err := app.WireRuntime(&bytes.Buffer{})
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.Config)
	assert.NotNil(t, rt.Logger)
	assert.NotNil(t, rt.Events)
	assert.NotNil(t, rt.Registry)
	assert.NotNil(t, rt.Manager)
	require.NotNil(t, rt.Invoker)
	assert.Equal(t, env.hookPath, rt.Invoker.HookPath())

	_, err = ulid.Parse(rt.JobID)
	assert.NoError(t, err, "job id should be a ULID")
}

func TestWireRuntime_DistinctJobIDs(t *testing.T) {
	env := newTestEnv(t)
	app := New()
	app.configDir = env.dir
	app.SetRunner(env.runner)

	first, err := app.WireRuntime(&bytes.Buffer{})
	require.NoError(t, err)
	defer first.Close()
	second, err := app.WireRuntime(&bytes.Buffer{})
	require.NoError(t, err)
	defer second.Close()

	assert.NotEqual(t, first.JobID, second.JobID)
}

func TestWireRuntime_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	writeTestFile(t, filepath.Join(env.dir, ".hookrunner.yaml"), "log_level: loud\n")

	app := New()
	app.configDir = env.dir
	_, err := app.WireRuntime(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestWireRuntime_HookFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	writeTestFile(t, filepath.Join(env.dir, ".hookrunner.yaml"), "temp_dir: "+env.tempDir+"\n")
	t.Setenv("ACTIONS_RUNNER_CONTAINER_HOOKS", env.hookPath)

	app := New()
	app.configDir = env.dir
	app.SetRunner(env.runner)

	rt, err := app.WireRuntime(&bytes.Buffer{})
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, env.hookPath, rt.Invoker.HookPath())
}

func TestRuntime_CloseWritesMetrics(t *testing.T) {
	env := newTestEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")

	app := New()
	app.configDir = env.dir
	app.metricsOut = metricsPath
	app.SetRunner(env.runner)

	rt, err := app.WireRuntime(&bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	assert.FileExists(t, metricsPath)
}

func TestRuntime_CloseReportsMetricsFailure(t *testing.T) {
	env := newTestEnv(t)

	app := New()
	app.configDir = env.dir
	app.metricsOut = filepath.Join(t.TempDir(), "missing", "dir", "metrics.prom")
	app.SetRunner(env.runner)

	rt, err := app.WireRuntime(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Error(t, rt.Close())
	assert.Zero(t, env.runner.CallsFor(hook.CommandPrepareJob))
}
