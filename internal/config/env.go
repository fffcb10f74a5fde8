package config

import "os"

// Environment variables read by hookrunner.
const (
	EnvHookPath    = "ACTIONS_RUNNER_CONTAINER_HOOKS"
	EnvInterpreter = "HOOKRUNNER_INTERPRETER"
	EnvTempDir     = "HOOKRUNNER_TEMP_DIR"
	EnvLogLevel    = "HOOKRUNNER_LOG_LEVEL"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: EnvHookPath,
		apply: func(c *Config, v string) {
			c.Hook.Path = v
		},
	},
	{
		envVar: EnvInterpreter,
		apply: func(c *Config, v string) {
			c.Hook.Interpreter = v
		},
	},
	{
		envVar: EnvTempDir,
		apply: func(c *Config, v string) {
			c.TempDir = v
		},
	},
	{
		envVar: EnvLogLevel,
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
