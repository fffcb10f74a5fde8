package config

import "os"

const (
	DefaultInterpreter = "node"
	DefaultLogLevel    = "info"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Hook: HookConfig{
			Interpreter: DefaultInterpreter,
		},
		TempDir:  os.TempDir(),
		LogLevel: DefaultLogLevel,
	}
}
