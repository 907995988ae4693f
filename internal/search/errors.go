package search

import (
	"errors"
	"fmt"
)

// ConfigError reports an unrecoverable configuration problem: an
// unrecognized strategy name, or an empty rule registry where rules are
// required. These abort the run; nothing retries them.
type ConfigError struct {
	// Param names the configuration parameter at fault.
	Param string

	// Value is the offending value, rendered for the diagnostic.
	Value string

	// Message describes what was expected.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("search: invalid %s %q: %s", e.Param, e.Value, e.Message)
	}
	return fmt.Sprintf("search: invalid %s: %s", e.Param, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func newConfigError(param, value, message string) *ConfigError {
	return &ConfigError{Param: param, Value: value, Message: message}
}
