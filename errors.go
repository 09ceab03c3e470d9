package terminus

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"
)

type (
	// BindingError reports a parameter that could not be resolved
	// or a value that could not be converted to the target type.
	BindingError struct {
		Parameter string
		Type      reflect.Type
		Reason    string
	}

	// FeatureDisabledError reports a call that targeted a disabled
	// feature.
	FeatureDisabledError struct {
		Feature string
	}

	// RateLimitError reports a call that exceeded its configured
	// quota.  The caller may retry after the window elapses.
	RateLimitError struct {
		Key string
	}

	// ValidationError aggregates every constraint violated by the
	// call's arguments.
	ValidationError struct {
		violations *multierror.Error
	}
)

func (e *BindingError) Error() string {
	return fmt.Sprintf("binding: parameter %q (%v): %s",
		e.Parameter, e.Type, e.Reason)
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("feature %q is disabled", e.Feature)
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %q", e.Key)
}

// NewValidationError aggregates one or more violations.  Returns nil
// when there are none.
func NewValidationError(violations ...error) *ValidationError {
	var all *multierror.Error
	for _, v := range violations {
		if v != nil {
			all = multierror.Append(all, v)
		}
	}
	if all == nil {
		return nil
	}
	return &ValidationError{all}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.violations.Error()
}

// Violations lists every violated constraint.
func (e *ValidationError) Violations() []error {
	return e.violations.Errors
}

func (e *ValidationError) Unwrap() error {
	return e.violations
}
