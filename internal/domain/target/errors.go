package target

import (
	"errors"
	"fmt"
)

// ErrorCode identifies well-known domain error categories used across the
// target execution engine. These map onto the error taxonomy (not types)
// described for the engine: ConfigurationError, PlanningError,
// RequirementsError, TargetFailure and HostInterrupt are all represented as
// DomainError values carrying one of these codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodePlanning      ErrorCode = "PLANNING_ERROR"
	ErrCodeRequirements  ErrorCode = "REQUIREMENTS_ERROR"
	ErrCodeTargetFailure ErrorCode = "TARGET_FAILURE"
	ErrCodeHostInterrupt ErrorCode = "HOST_INTERRUPT"

	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeDuplicate  ErrorCode = "DUPLICATE_ID"
	ErrCodeDependency ErrorCode = "DEPENDENCY_ERROR"
	ErrCodeCycle      ErrorCode = "CIRCULAR_DEPENDENCY"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeMissing    ErrorCode = "MISSING_REQUIRED"
	ErrCodeCancelled  ErrorCode = "CANCELLED"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a typed error enriched with contextual data while
// remaining free from infrastructure dependencies.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is allows errors.Is comparisons against other DomainError values.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if !errors.As(target, &domainErr) {
		return false
	}
	return e.Code == domainErr.Code && e.Message == domainErr.Message
}

// WithContext clones the error with additional contextual metadata.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

func newDomainError(code ErrorCode, message string, cause error, context map[string]interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// Helper constructors to simplify error creation throughout the domain.

// NewConfigurationError reports a build-definition defect discovered before
// planning (reserved name used as a real name, more than one default
// target). Duplicate names are reported with ErrCodeDuplicate instead.
func NewConfigurationError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeConfiguration, message, nil, context)
}

// NewPlanningError reports a defect discovered while computing the
// execution list (unknown target, cycle, strict-mode ambiguity).
func NewPlanningError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodePlanning, message, nil, context)
}

// NewPlanningErrorWithCause is NewPlanningError with an underlying cause
// preserved for errors.Is/errors.As chains, e.g. a NewNotFoundError raised
// while resolving an invoked target name.
func NewPlanningErrorWithCause(message string, cause error, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodePlanning, message, cause, context)
}

// NewRequirementsError reports one or more unmet requirements, aggregated
// into a single message before execution begins.
func NewRequirementsError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeRequirements, message, nil, context)
}

// NewTargetFailure wraps the error thrown by a target's action.
func NewTargetFailure(targetName string, cause error) *DomainError {
	return newDomainError(ErrCodeTargetFailure, "target action failed", cause, map[string]interface{}{
		"target": targetName,
	})
}

// NewHostInterrupt reports delivery of an external interrupt signal while a
// target's action was running.
func NewHostInterrupt(targetName string, cause error) *DomainError {
	return newDomainError(ErrCodeHostInterrupt, "execution interrupted", cause, map[string]interface{}{
		"target": targetName,
	})
}

func newValidationError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeValidation, message, nil, context)
}

// NewNotFoundError reports that a named target does not exist in the build.
// Callers that need a broader-category error (e.g. planning) wrap this as
// the Cause of their own DomainError rather than returning it bare.
func NewNotFoundError(name string) *DomainError {
	return newDomainError(ErrCodeNotFound, "target not found", nil, map[string]interface{}{
		"target": name,
	})
}

func newDuplicateError(identifier string) *DomainError {
	return newDomainError(ErrCodeDuplicate, "duplicate target name", nil, map[string]interface{}{
		"name": identifier,
	})
}

func newDependencyError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeDependency, message, nil, context)
}

func newCycleError(path []string) *DomainError {
	return newDomainError(ErrCodeCycle, "circular dependencies", nil, map[string]interface{}{
		"path": path,
	})
}

func newMissingFieldError(field string) *DomainError {
	return newDomainError(ErrCodeMissing, "missing required field", nil, map[string]interface{}{
		"field": field,
	})
}
