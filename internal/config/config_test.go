package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RevCBH/hookrunner/internal/testutil"
)

// writeFile creates a file with the given content for testing
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Hook.Path != "" {
		t.Errorf("expected Hook.Path to be empty, got %q", cfg.Hook.Path)
	}
	if cfg.Hook.Interpreter != DefaultInterpreter {
		t.Errorf("expected Hook.Interpreter to be %q, got %q", DefaultInterpreter, cfg.Hook.Interpreter)
	}
	if cfg.TempDir != os.TempDir() {
		t.Errorf("expected TempDir to be %q, got %q", os.TempDir(), cfg.TempDir)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected LogLevel to be %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), `
hook:
  path: hooks/index.js
  interpreter: /usr/local/bin/node
  env:
    RUNNER_TEMP: /runner/tmp
temp_dir: /var/tmp/runner
log_level: debug
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := filepath.Join(dir, "hooks/index.js"); cfg.Hook.Path != want {
		t.Errorf("expected Hook.Path to be %q, got %q", want, cfg.Hook.Path)
	}
	if cfg.Hook.Interpreter != "/usr/local/bin/node" {
		t.Errorf("expected Hook.Interpreter to be '/usr/local/bin/node', got %q", cfg.Hook.Interpreter)
	}
	if cfg.Hook.Env["RUNNER_TEMP"] != "/runner/tmp" {
		t.Errorf("expected Hook.Env[RUNNER_TEMP] to be '/runner/tmp', got %q", cfg.Hook.Env["RUNNER_TEMP"])
	}
	if cfg.TempDir != "/var/tmp/runner" {
		t.Errorf("expected TempDir to be '/var/tmp/runner', got %q", cfg.TempDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel to be 'debug', got %q", cfg.LogLevel)
	}
}

func TestLoadConfig_AbsoluteHookPathKept(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "hook:\n  path: /opt/hooks/index.js\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hook.Path != "/opt/hooks/index.js" {
		t.Errorf("expected Hook.Path to be '/opt/hooks/index.js', got %q", cfg.Hook.Path)
	}
}

func TestLoadConfig_DotenvOverridesFile(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), "log_level: warn\nhook:\n  path: /from/file.js\n")
	writeFile(t, filepath.Join(dir, EnvFileName), "ACTIONS_RUNNER_CONTAINER_HOOKS=/from/dotenv.js\nHOOKRUNNER_LOG_LEVEL=error\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hook.Path != "/from/dotenv.js" {
		t.Errorf("expected Hook.Path to be '/from/dotenv.js', got %q", cfg.Hook.Path)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected LogLevel to be 'error', got %q", cfg.LogLevel)
	}
}

func TestLoadConfig_EnvironmentBeatsDotenv(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, EnvFileName), "ACTIONS_RUNNER_CONTAINER_HOOKS=/from/dotenv.js\n")
	t.Setenv(EnvHookPath, "/from/env.js")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hook.Path != "/from/env.js" {
		t.Errorf("expected Hook.Path to be '/from/env.js', got %q", cfg.Hook.Path)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "hook: [unclosed")

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_InvalidDotenv(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, EnvFileName), "BAD-KEY=1\n")

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected error for invalid dotenv file")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	testutil.UnsetHookEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "log_level: loud\n")

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "log_level" {
		t.Errorf("expected Field to be 'log_level', got %q", verr.Field)
	}
}
