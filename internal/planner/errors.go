package planner

import (
	"errors"
	"fmt"
)

// ConfigurationError means no run can be attempted: the provider credential
// is missing or the backend could not be built.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InputError rejects a request before any provider call.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SynthesisFailure is fatal to a run: the provider failed, returned nothing,
// or returned a payload that is not a valid plan. A schema problem is kept as
// the wrapped *planschema.SchemaViolation.
type SynthesisFailure struct {
	Err error
}

func (e *SynthesisFailure) Error() string {
	return "synthesis failed: " + e.Err.Error()
}

func (e *SynthesisFailure) Unwrap() error { return e.Err }

// IsConfiguration reports whether err is a *ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsInput reports whether err is an *InputError.
func IsInput(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
