package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

var hookEnvVars = []string{
	"ACTIONS_RUNNER_CONTAINER_HOOKS",
	"HOOKRUNNER_INTERPRETER",
	"HOOKRUNNER_TEMP_DIR",
	"HOOKRUNNER_LOG_LEVEL",
}

// UnsetHookEnv clears environment variables that redirect hook
// configuration. Original values are restored when the test ends.
func UnsetHookEnv(t testing.TB) {
	t.Helper()
	for _, key := range hookEnvVars {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

// WriteHookScript creates an empty hook index file under dir and returns its path.
func WriteHookScript(dir string) (string, error) {
	path := filepath.Join(dir, "index.js")
	if err := os.WriteFile(path, []byte("// test hook\n"), 0644); err != nil {
		return "", err
	}
	return path, nil
}
