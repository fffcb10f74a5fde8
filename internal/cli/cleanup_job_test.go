package cli

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/hookrunner/internal/hook"
	"github.com/RevCBH/hookrunner/internal/lifecycle"
	"github.com/RevCBH/hookrunner/internal/testutil"
)

func TestCleanupJobCmd_AfterPrepare(t *testing.T) {
	env := newTestEnv(t)
	setPath := filepath.Join(env.dir, "containers.yaml")
	writeTestFile(t, setPath, scenarioSet)
	env.runner.Respond(hook.CommandPrepareJob, testutil.FakeResponse{Body: scenarioResponse})
	env.runner.Respond(hook.CommandCleanupJob, testutil.FakeResponse{Body: "{}"})

	_, _, err := env.run(t, "prepare-job", "-f", setPath)
	require.NoError(t, err)

	stdout, _, err := env.run(t, "cleanup-job", "-f", setPath)
	require.NoError(t, err)
	assert.Equal(t, "cleaned up 3 containers\n", stdout)

	reqs := env.runner.Requests()
	require.Len(t, reqs, 2)
	cleanup := reqs[1]
	assert.Equal(t, hook.CommandCleanupJob, cleanup.Command)
	require.NotNil(t, cleanup.Args.Network)
	assert.Equal(t, "netA", *cleanup.Args.Network)
	require.NotNil(t, cleanup.Args.Container)
	assert.Equal(t, "node:20", cleanup.Args.Container.Image)
	assert.Len(t, cleanup.Args.Services, 2)
}

func TestCleanupJobCmd_NoNetworkOmitted(t *testing.T) {
	env := newTestEnv(t)
	setPath := filepath.Join(env.dir, "containers.yaml")
	writeTestFile(t, setPath, scenarioSet)
	env.runner.Respond(hook.CommandCleanupJob, testutil.FakeResponse{Body: "{}"})

	_, _, err := env.run(t, "cleanup-job", "-f", setPath)
	require.NoError(t, err)

	execs := env.runner.Executions()
	require.Len(t, execs, 1)
	var doc struct {
		Args map[string]json.RawMessage `json:"args"`
	}
	require.NoError(t, json.Unmarshal(execs[0].Stdin, &doc))
	assert.NotContains(t, doc.Args, "network")
}

func TestCleanupJobCmd_Failure(t *testing.T) {
	env := newTestEnv(t)
	setPath := filepath.Join(env.dir, "containers.yaml")
	writeTestFile(t, setPath, scenarioSet)
	env.runner.Respond(hook.CommandCleanupJob, testutil.FakeResponse{ExitCode: 1, Output: "container busy"})

	stdout, _, err := env.run(t, "cleanup-job", "-f", setPath)

	var phaseErr *lifecycle.PhaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, hook.CommandCleanupJob, phaseErr.Phase)
	assert.Empty(t, stdout)
	assert.Equal(t, 1, env.runner.CallsFor(hook.CommandCleanupJob), "cleanup is not retried")
}

func TestCleanupJobCmd_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "cleanup-job", "-f", filepath.Join(env.dir, "nope.yaml"))
	assert.Error(t, err)
	assert.Empty(t, env.runner.Requests())
}
