package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RevCBH/hookrunner/internal/testutil"
)

// testEnv is a config directory with a hook script and a fake runner
type testEnv struct {
	dir      string
	tempDir  string
	hookPath string
	runner   *testutil.FakeRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	testutil.UnsetHookEnv(t)

	dir := t.TempDir()
	hookPath, err := testutil.WriteHookScript(t.TempDir())
	require.NoError(t, err)
	tempDir := t.TempDir()

	writeTestFile(t, filepath.Join(dir, ".hookrunner.yaml"),
		"hook:\n  path: "+hookPath+"\ntemp_dir: "+tempDir+"\nlog_level: error\n")

	return &testEnv{
		dir:      dir,
		tempDir:  tempDir,
		hookPath: hookPath,
		runner:   testutil.NewFakeRunner(),
	}
}

// run executes the CLI with args against the env's config directory
func (e *testEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return e.runContext(t, context.Background(), args...)
}

// runContext is run with ctx handed to the command
func (e *testEnv) runContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	app := New()
	app.notifySignals = false
	app.SetRunner(e.runner)

	var out, errOut bytes.Buffer
	app.SetOutput(&out, &errOut)
	app.SetArgs(append([]string{"--config", e.dir}, args...))

	err = app.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const scenarioSet = `containers:
  - job_container: true
    image: node:20
  - alias: db
    image: postgres:16
    ports:
      "5432": ""
  - alias: cache
    image: redis:7
`
