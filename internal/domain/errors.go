package domain

import "fmt"

// ConfigurationError reports an input combination the engine cannot
// model, such as an unknown state or filing status. It is distinct from a
// parse error: the input was well-formed but unsupported.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported configuration: %s=%q: %s", e.Field, e.Value, e.Reason)
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(field, value, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
