package inheritance

import (
	"github.com/conduit-lang/mixins/pkg/types"
)

// Policy enumerates the target types a type inherits mixin configuration
// from, in precedence order.
type Policy interface {
	Ancestors(target types.TypeID) []types.TypeID
}

// PolicyFunc adapts a function to the Policy interface
type PolicyFunc func(target types.TypeID) []types.TypeID

// Ancestors calls f(target)
func (f PolicyFunc) Ancestors(target types.TypeID) []types.TypeID {
	return f(target)
}

// DefaultPolicy inherits from the direct base type first and then from the
// open generic definition of a closed generic type.
type DefaultPolicy struct {
	Provider types.Provider
}

// NewDefaultPolicy creates the default policy over p
func NewDefaultPolicy(p types.Provider) DefaultPolicy {
	return DefaultPolicy{Provider: p}
}

// Ancestors implements Policy
func (p DefaultPolicy) Ancestors(target types.TypeID) []types.TypeID {
	var ancestors []types.TypeID
	if base := types.BaseOf(p.Provider, target); base != "" && base != target {
		ancestors = append(ancestors, base)
	}
	if def := types.DefinitionOf(p.Provider, target); def != "" && def != target {
		if len(ancestors) == 0 || ancestors[0] != def {
			ancestors = append(ancestors, def)
		}
	}
	return ancestors
}

// NoInheritance is a policy under which no type inherits configuration
var NoInheritance Policy = PolicyFunc(func(types.TypeID) []types.TypeID { return nil })
