package errors

import (
	"fmt"

	"github.com/conduit-lang/mixins/pkg/types"
)

// Registration error codes (MIX100-199)
const (
	// ErrCodeDuplicateMixin indicates the same mixin registered twice for one target
	ErrCodeDuplicateMixin ErrorCode = "MIX100"
	// ErrCodeSelfSuppression indicates a mixin configured to suppress itself
	ErrCodeSelfSuppression ErrorCode = "MIX101"
	// ErrCodeSelfDependency indicates a mixin declared to depend on itself
	ErrCodeSelfDependency ErrorCode = "MIX102"
	// ErrCodeEmptyTypeID indicates an empty type identifier
	ErrCodeEmptyTypeID ErrorCode = "MIX103"
)

// NewDuplicateMixin creates a MIX100 error
func NewDuplicateMixin(target, mixin types.TypeID) *ConfigError {
	return newError(
		ErrCodeDuplicateMixin,
		"duplicate_mixin",
		PhaseRegistration,
		fmt.Sprintf("mixin %s is already configured for target %s", mixin, target),
		mixin,
	).WithTarget(target).
		WithSuggestion("Use EnsureMixin to reuse an existing registration, or remove the duplicate AddMixin call")
}

// NewSelfSuppression creates a MIX101 error
func NewSelfSuppression(target, mixin, suppressed types.TypeID) *ConfigError {
	msg := fmt.Sprintf("mixin %s cannot suppress itself", mixin)
	if suppressed != mixin {
		msg = fmt.Sprintf("mixin %s cannot suppress %s, its own generic type definition", mixin, suppressed)
	}
	return newError(
		ErrCodeSelfSuppression,
		"self_suppression",
		PhaseRegistration,
		msg,
		mixin, suppressed,
	).WithTarget(target).
		WithSuggestion("A replacement rule must name a different mixin than the one being added")
}

// NewSelfDependency creates a MIX102 error
func NewSelfDependency(target, mixin types.TypeID) *ConfigError {
	return newError(
		ErrCodeSelfDependency,
		"self_dependency",
		PhaseRegistration,
		fmt.Sprintf("mixin %s cannot depend on itself", mixin),
		mixin,
	).WithTarget(target)
}

// NewEmptyTypeID creates a MIX103 error. what names the role of the missing
// identifier (e.g., "mixin type", "target type").
func NewEmptyTypeID(target types.TypeID, what string) *ConfigError {
	return newError(
		ErrCodeEmptyTypeID,
		"empty_type_id",
		PhaseRegistration,
		fmt.Sprintf("%s identifier must not be empty", what),
	).WithTarget(target)
}
