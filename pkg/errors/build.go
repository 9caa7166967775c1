package errors

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/mixins/pkg/types"

	fuzzy "github.com/conduit-lang/mixins/internal/util/strings"
)

// Build error codes (MIX200-299)
const (
	// ErrCodeDependencyCycle indicates a cycle among explicit mixin dependencies
	ErrCodeDependencyCycle ErrorCode = "MIX200"
	// ErrCodeMissingDependency indicates a dependency on a mixin absent from the context
	ErrCodeMissingDependency ErrorCode = "MIX201"
	// ErrCodeInheritanceCycle indicates a cycle in the inheritance graph of target types
	ErrCodeInheritanceCycle ErrorCode = "MIX202"
	// ErrCodeMissingReplacement indicates a replacement rule without its replacement (strict mode)
	ErrCodeMissingReplacement ErrorCode = "MIX203"
	// ErrCodeUnknownMixin indicates a dependency declared for a mixin the context does not contain
	ErrCodeUnknownMixin ErrorCode = "MIX204"
	// ErrCodeInvalidContext indicates a class context that violates its invariants
	ErrCodeInvalidContext ErrorCode = "MIX205"
)

// NewDependencyCycle creates a MIX200 error. cycle lists the mixins on the
// cycle in dependency order; the first mixin is not repeated at the end.
func NewDependencyCycle(target types.TypeID, cycle []types.TypeID) *ConfigError {
	return newError(
		ErrCodeDependencyCycle,
		"dependency_cycle",
		PhaseBuild,
		fmt.Sprintf("mixin dependency cycle on %s: %s", target, formatCycle(cycle)),
		cycle...,
	).WithTarget(target).
		WithSuggestion("Remove one of the explicit dependencies so the mixins can be ordered")
}

// NewMissingDependency creates a MIX201 error. present lists the mixins of
// the context and is used for suggestions.
func NewMissingDependency(target, mixin, dependency types.TypeID, origin string, present []types.TypeID) *ConfigError {
	e := newError(
		ErrCodeMissingDependency,
		"missing_dependency",
		PhaseBuild,
		fmt.Sprintf("mixin %s depends on %s, which is not configured for %s", mixin, dependency, target),
		mixin, dependency,
	).WithTarget(target).WithOrigin(origin)

	candidates := make([]string, len(present))
	for i, p := range present {
		candidates[i] = string(p)
	}
	if similar := fuzzy.FindSimilar(string(dependency), candidates, nil); len(similar) > 0 {
		return e.WithSuggestion(fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", ")))
	}
	return e.WithSuggestion(fmt.Sprintf("Add %s to %s or check that no suppression rule removes it", dependency, target))
}

// NewInheritanceCycle creates a MIX202 error. path lists the target types
// from the first re-entered type back to itself.
func NewInheritanceCycle(path []types.TypeID) *ConfigError {
	var target types.TypeID
	if len(path) > 0 {
		target = path[0]
	}
	return newError(
		ErrCodeInheritanceCycle,
		"inheritance_cycle",
		PhaseBuild,
		fmt.Sprintf("inheritance cycle while resolving %s: %s", target, joinTypes(path, " -> ")),
	).WithTarget(target).
		WithSuggestion("Check the base-type metadata and the inheritance policy for a loop")
}

// NewMissingReplacement creates a MIX203 error
func NewMissingReplacement(target, suppressed, replacement types.TypeID) *ConfigError {
	return newError(
		ErrCodeMissingReplacement,
		"missing_replacement",
		PhaseBuild,
		fmt.Sprintf("replacement of %s requires %s, which is not configured for %s", suppressed, replacement, target),
		suppressed, replacement,
	).WithTarget(target).
		WithSuggestion(fmt.Sprintf("Add %s to %s or drop the replacement rule", replacement, target))
}

// NewUnknownMixin creates a MIX204 error
func NewUnknownMixin(target, mixin, dependency types.TypeID, origin string) *ConfigError {
	return newError(
		ErrCodeUnknownMixin,
		"unknown_mixin",
		PhaseBuild,
		fmt.Sprintf("cannot add dependency on %s: mixin %s is not configured for %s", dependency, mixin, target),
		mixin, dependency,
	).WithTarget(target).WithOrigin(origin)
}

// NewInvalidContext creates a MIX205 error
func NewInvalidContext(target types.TypeID, reason string, mixins ...types.TypeID) *ConfigError {
	return newError(
		ErrCodeInvalidContext,
		"invalid_context",
		PhaseBuild,
		fmt.Sprintf("invalid class context for %s: %s", target, reason),
		mixins...,
	).WithTarget(target)
}

// formatCycle renders a cycle and closes it with its first element
func formatCycle(cycle []types.TypeID) string {
	if len(cycle) == 0 {
		return ""
	}
	return joinTypes(append(append([]types.TypeID(nil), cycle...), cycle[0]), " -> ")
}

func joinTypes(ids []types.TypeID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}
