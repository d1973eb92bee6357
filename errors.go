package featenc

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrDuplicateFeature indicates two declarations share a name.
	ErrDuplicateFeature = errors.New("duplicate feature")

	// ErrUnknownKind indicates a declared kind matched none of
	// boolean/integer/numeric/categorical.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrUnknownFormat indicates a format was neither normal, numeric nor binary.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrUnknownFeature indicates an evaluation selector named an undeclared feature.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrUnknownKey indicates a declaration document used an unrecognized key.
	ErrUnknownKey = errors.New("unknown declaration key")

	// ErrConflictingDomain indicates a declaration combined more than one of
	// an explicit value list, a value file, and a numeric range.
	ErrConflictingDomain = errors.New("conflicting value domain options")

	// ErrInvalidRange indicates a range string could not be parsed, or its
	// lower bound was not strictly below its upper bound.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidDomain indicates a value domain violated a kind constraint,
	// such as a boolean domain with more than two distinct truth values.
	ErrInvalidDomain = errors.New("invalid value domain")

	// ErrDefaultWithoutDomain indicates a default was declared before any
	// value domain or range.
	ErrDefaultWithoutDomain = errors.New("default requires a value domain")

	// ErrDomainRequired indicates binary output was requested for a feature
	// with no value domain to enumerate.
	ErrDomainRequired = errors.New("binary encoding requires a value domain")

	// ErrFunctionNotFound indicates an evaluator or postprocess name resolved
	// nowhere in the lookup chain.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrMissingMapping indicates a static category mapping had no entry for a
	// validated value; static mappings must cover every declared value.
	ErrMissingMapping = errors.New("missing mapping entry")

	// ErrMappingUnavailable indicates no candidate location could provide a
	// read-writable dynamic mapping file.
	ErrMappingUnavailable = errors.New("mapping file unavailable")

	// ErrMappingWrite indicates appending to the dynamic mapping file failed.
	ErrMappingWrite = errors.New("mapping write failed")
)

// DeclarationError represents a registration-time configuration error. It wraps
// a sentinel error with the feature name and the offending detail.
type DeclarationError struct {
	Err     error  // Underlying sentinel error (ErrUnknownKind, etc.)
	Feature string // Feature name, if known when the error was raised
	Detail  string // Offending key, kind string, range string, etc.
}

func (e *DeclarationError) Error() string {
	switch {
	case e.Feature != "" && e.Detail != "":
		return fmt.Sprintf("feature %q: %s: %q", e.Feature, e.Err.Error(), e.Detail)
	case e.Feature != "":
		return fmt.Sprintf("feature %q: %s", e.Feature, e.Err.Error())
	case e.Detail != "":
		return fmt.Sprintf("%s: %q", e.Err.Error(), e.Detail)
	}
	return e.Err.Error()
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// EvalError represents a hard failure during evaluation: an unknown feature or
// format, or a value whose required mapping entry does not exist.
type EvalError struct {
	Err     error  // Underlying sentinel error
	Feature string // Feature being evaluated
	Value   any    // Offending value, if any
}

func (e *EvalError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("feature %q: %s: %v", e.Feature, e.Err.Error(), e.Value)
	}
	if e.Feature != "" {
		return fmt.Sprintf("feature %q: %s", e.Feature, e.Err.Error())
	}
	return e.Err.Error()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// MappingError represents a failure establishing or writing a persisted
// dynamic mapping file.
type MappingError struct {
	Err     error  // Underlying sentinel error (ErrMappingUnavailable, ErrMappingWrite)
	Feature string // Feature owning the mapping
	Path    string // File path involved, if one was chosen
	Cause   error  // Original I/O error
}

func (e *MappingError) Error() string {
	msg := fmt.Sprintf("feature %q: %s", e.Feature, e.Err.Error())
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// newDeclarationError creates a DeclarationError for registration failures.
func newDeclarationError(sentinel error, feature, detail string) error {
	return &DeclarationError{Err: sentinel, Feature: feature, Detail: detail}
}

// newEvalError creates an EvalError for call-time hard failures.
func newEvalError(sentinel error, feature string, value any) error {
	return &EvalError{Err: sentinel, Feature: feature, Value: value}
}

// newMappingError creates a MappingError for mapping persistence failures.
func newMappingError(sentinel error, feature, path string, cause error) error {
	return &MappingError{Err: sentinel, Feature: feature, Path: path, Cause: cause}
}

// skipError is the soft-failure result: the current value failed validation and
// the whole batch must be abandoned. It never escapes Evaluate; the condition
// is reported via SignalSampleSkipped and the call returns an empty result.
type skipError struct {
	feature string
	value   any
	reason  string
}

func (e *skipError) Error() string {
	return fmt.Sprintf("feature %q: skip batch: %s (value %v)", e.feature, e.reason, e.value)
}
