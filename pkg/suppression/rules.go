// Package suppression decides which inherited mixins survive into a derived
// class context. Rules only ever see the inherited mixin set; mixins declared
// locally on the target are never suppressed.
package suppression

import (
	"fmt"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/types"
)

// LocalSet reports whether a mixin type is declared locally on the target
type LocalSet interface {
	ContainsMixin(mixinType types.TypeID) bool
}

// Set is a LocalSet backed by a map
type Set map[types.TypeID]bool

// NewSet creates a set of the given mixin types
func NewSet(ids ...types.TypeID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// ContainsMixin implements LocalSet
func (s Set) ContainsMixin(mixinType types.TypeID) bool {
	return s[mixinType]
}

// Rule is a suppression intent registered on a class builder.
type Rule interface {
	// Base returns the base type whose subtree the rule removes
	Base() types.TypeID
	// Active reports whether the rule fires given the local mixins
	Active(local LocalSet) bool
	// String describes the rule for diagnostics
	String() string
}

// Matches reports whether rule removes an inherited mixin of type mixinType
func Matches(p types.Provider, rule Rule, mixinType types.TypeID, local LocalSet) bool {
	return rule.Active(local) && types.IsAssignableTo(p, mixinType, rule.Base())
}

// SubtreeRule unconditionally removes inherited mixins equal to or derived from Base
type SubtreeRule struct {
	BaseType types.TypeID
}

// NewSubtreeRule creates a subtree rule
func NewSubtreeRule(base types.TypeID) SubtreeRule {
	return SubtreeRule{BaseType: base}
}

// Base implements Rule
func (r SubtreeRule) Base() types.TypeID { return r.BaseType }

// Active implements Rule
func (r SubtreeRule) Active(LocalSet) bool { return true }

func (r SubtreeRule) String() string {
	return fmt.Sprintf("suppress %s", r.BaseType)
}

// ReplacementRule removes inherited mixins equal to or derived from BaseType,
// but only while Replacement is declared locally on the same target.
type ReplacementRule struct {
	BaseType    types.TypeID
	Replacement types.TypeID
}

// NewReplacementRule creates a replacement rule
func NewReplacementRule(base, replacement types.TypeID) ReplacementRule {
	return ReplacementRule{BaseType: base, Replacement: replacement}
}

// Base implements Rule
func (r ReplacementRule) Base() types.TypeID { return r.BaseType }

// Active implements Rule
func (r ReplacementRule) Active(local LocalSet) bool {
	return local != nil && local.ContainsMixin(r.Replacement)
}

func (r ReplacementRule) String() string {
	return fmt.Sprintf("replace %s with %s", r.BaseType, r.Replacement)
}

// ValidateNotSelf rejects a suppression of base performed by mixin when base
// is mixin itself or the open generic definition of mixin.
func ValidateNotSelf(p types.Provider, target, mixin, base types.TypeID) error {
	if base.IsEmpty() {
		return errors.NewEmptyTypeID(target, "suppressed type")
	}
	if base == mixin {
		return errors.NewSelfSuppression(target, mixin, base)
	}
	if def := types.DefinitionOf(p, mixin); def != "" && def == base {
		return errors.NewSelfSuppression(target, mixin, base)
	}
	return nil
}
