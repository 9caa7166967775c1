// Package errors provides structured errors for mixin configuration.
// Every error carries a unique code, the phase in which it was raised, the
// target and mixin types involved and, where available, the provenance of the
// offending registration. Errors render for humans (plain or colored terminal
// output) and as JSON for tooling.
package errors

import (
	"encoding/json"
	"fmt"

	"github.com/conduit-lang/mixins/pkg/types"
)

// ErrorCode represents a unique configuration error code
type ErrorCode string

// Phase identifies when an error is raised
type Phase string

const (
	// PhaseRegistration errors are raised by the builder call that causes them (MIX100-199)
	PhaseRegistration Phase = "registration"
	// PhaseBuild errors are raised while building a class context (MIX200-299)
	PhaseBuild Phase = "build"
	// PhaseScope errors concern the ambient configuration scope (MIX300-399)
	PhaseScope Phase = "scope"
)

// ConfigError is a fatal mixin configuration error. The declaration must be
// fixed and rebuilt; there is no partial composition.
type ConfigError struct {
	// Code is the unique error code (e.g., "MIX101")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Phase is the phase in which the error was raised
	Phase Phase `json:"phase"`
	// Message is the primary error message
	Message string `json:"message"`
	// Target is the target type being configured, if known
	Target types.TypeID `json:"target,omitempty"`
	// Mixins lists the offending mixin types
	Mixins []types.TypeID `json:"mixins,omitempty"`
	// Origin describes where the offending registration was made
	Origin string `json:"origin,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples provides example fixes (optional)
	Examples []string `json:"examples,omitempty"`
	// Documentation is a URL to detailed error documentation
	Documentation string `json:"documentation,omitempty"`
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return FormatCompact(e)
}

// Is matches errors with the same code, so sentinels work with errors.Is
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Format returns a multi-line human-readable message
func (e *ConfigError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as an indented JSON document
func (e *ConfigError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithTarget sets the target type for the error
func (e *ConfigError) WithTarget(target types.TypeID) *ConfigError {
	e.Target = target
	return e
}

// WithOrigin sets the provenance of the offending registration
func (e *ConfigError) WithOrigin(origin string) *ConfigError {
	e.Origin = origin
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *ConfigError) WithSuggestion(suggestion string) *ConfigError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets example fixes for the error
func (e *ConfigError) WithExamples(examples ...string) *ConfigError {
	e.Examples = examples
	return e
}

// documentationURL returns the documentation URL for an error code
func documentationURL(code ErrorCode) string {
	return fmt.Sprintf("https://docs.conduit-lang.org/mixins/errors/%s", code)
}

// newError creates a new ConfigError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	phase Phase,
	message string,
	mixins ...types.TypeID,
) *ConfigError {
	return &ConfigError{
		Code:          code,
		Type:          typ,
		Phase:         phase,
		Message:       message,
		Mixins:        mixins,
		Documentation: documentationURL(code),
	}
}

// sentinel creates a code-only error for errors.Is comparisons
func sentinel(code ErrorCode, typ string) *ConfigError {
	return &ConfigError{Code: code, Type: typ}
}

// Sentinels for errors.Is
var (
	ErrDuplicateMixin     = sentinel(ErrCodeDuplicateMixin, "duplicate_mixin")
	ErrSelfSuppression    = sentinel(ErrCodeSelfSuppression, "self_suppression")
	ErrSelfDependency     = sentinel(ErrCodeSelfDependency, "self_dependency")
	ErrEmptyTypeID        = sentinel(ErrCodeEmptyTypeID, "empty_type_id")
	ErrDependencyCycle    = sentinel(ErrCodeDependencyCycle, "dependency_cycle")
	ErrMissingDependency  = sentinel(ErrCodeMissingDependency, "missing_dependency")
	ErrInheritanceCycle   = sentinel(ErrCodeInheritanceCycle, "inheritance_cycle")
	ErrMissingReplacement = sentinel(ErrCodeMissingReplacement, "missing_replacement")
	ErrUnknownMixin       = sentinel(ErrCodeUnknownMixin, "unknown_mixin")
	ErrInvalidContext     = sentinel(ErrCodeInvalidContext, "invalid_context")
	ErrScopeOrder         = sentinel(ErrCodeScopeOrder, "scope_order")
)

// As returns the ConfigError wrapped in err, if any
func As(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if stdAs(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
