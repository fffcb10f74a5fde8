package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
// An unset hook path is not a validation error: commands that need the
// hook report it when they build the invoker.
func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.TempDir == "" {
		errs = append(errs, &ValidationError{
			Field:   "temp_dir",
			Value:   cfg.TempDir,
			Message: "must not be empty",
		})
	}

	if strings.TrimSpace(cfg.Hook.Interpreter) != cfg.Hook.Interpreter {
		errs = append(errs, &ValidationError{
			Field:   "hook.interpreter",
			Value:   cfg.Hook.Interpreter,
			Message: "must not have surrounding whitespace",
		})
	}

	for key := range cfg.Hook.Env {
		if key == "" || strings.Contains(key, "=") {
			errs = append(errs, &ValidationError{
				Field:   "hook.env",
				Value:   key,
				Message: "variable names must be non-empty and must not contain '='",
			})
		}
	}

	// LogLevel must be one of: debug, info, warn, error (case-sensitive)
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
