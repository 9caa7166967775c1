// Package model defines the immutable composition plan values: MixinContext
// describes one mixin applied to one target type and ClassContext is the
// resolved, ordered plan for a single target type.
package model

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/types"
)

// ClassContext is the resolved composition plan of one target type: its
// mixins in build order and the interfaces the composition implements.
type ClassContext struct {
	target             types.TypeID
	mixins             []*MixinContext
	index              map[types.TypeID]int
	composedInterfaces []types.TypeID
}

// NewClassContext validates and creates a class context. Mixins keep the
// given order. Every explicit dependency must name a mixin of the same
// context.
func NewClassContext(target types.TypeID, mixins []*MixinContext, composedInterfaces []types.TypeID) (*ClassContext, error) {
	if target.IsEmpty() {
		return nil, errors.NewEmptyTypeID(target, "target type")
	}

	ctx := &ClassContext{
		target: target,
		mixins: make([]*MixinContext, 0, len(mixins)),
		index:  make(map[types.TypeID]int, len(mixins)),
	}

	for _, m := range mixins {
		if m == nil {
			return nil, errors.NewInvalidContext(target, "nil mixin context")
		}
		if m.Target() != target {
			return nil, errors.NewInvalidContext(target,
				fmt.Sprintf("mixin %s is configured for %s", m.MixinType(), m.Target()), m.MixinType())
		}
		if _, exists := ctx.index[m.MixinType()]; exists {
			return nil, errors.NewInvalidContext(target,
				fmt.Sprintf("duplicate mixin %s", m.MixinType()), m.MixinType())
		}
		ctx.index[m.MixinType()] = len(ctx.mixins)
		ctx.mixins = append(ctx.mixins, m)
	}

	for _, m := range ctx.mixins {
		for _, dep := range m.dependencies {
			if _, ok := ctx.index[dep]; !ok {
				return nil, errors.NewMissingDependency(target, m.MixinType(), dep, m.Origin().String(), ctx.mixinTypes())
			}
		}
	}

	seen := make(map[types.TypeID]bool, len(composedInterfaces))
	for _, iface := range composedInterfaces {
		if iface.IsEmpty() {
			return nil, errors.NewEmptyTypeID(target, "composed interface")
		}
		if seen[iface] {
			continue
		}
		seen[iface] = true
		ctx.composedInterfaces = append(ctx.composedInterfaces, iface)
	}

	return ctx, nil
}

// Empty returns a context without mixins or composed interfaces
func Empty(target types.TypeID) *ClassContext {
	return &ClassContext{
		target: target,
		index:  make(map[types.TypeID]int),
	}
}

// Target returns the target type
func (c *ClassContext) Target() types.TypeID {
	return c.target
}

// Mixins returns the mixin contexts in build order
func (c *ClassContext) Mixins() []*MixinContext {
	return append([]*MixinContext(nil), c.mixins...)
}

// MixinTypes returns the mixin types in build order
func (c *ClassContext) MixinTypes() []types.TypeID {
	return c.mixinTypes()
}

func (c *ClassContext) mixinTypes() []types.TypeID {
	ids := make([]types.TypeID, len(c.mixins))
	for i, m := range c.mixins {
		ids[i] = m.MixinType()
	}
	return ids
}

// Len returns the number of mixins
func (c *ClassContext) Len() int {
	return len(c.mixins)
}

// Mixin returns the context of the given mixin type
func (c *ClassContext) Mixin(mixinType types.TypeID) (*MixinContext, bool) {
	i, ok := c.index[mixinType]
	if !ok {
		return nil, false
	}
	return c.mixins[i], true
}

// ContainsMixin reports whether the exact mixin type is configured
func (c *ClassContext) ContainsMixin(mixinType types.TypeID) bool {
	_, ok := c.index[mixinType]
	return ok
}

// ContainsAssignableMixin reports whether a configured mixin is assignable
// to base, according to the type metadata of p.
func (c *ClassContext) ContainsAssignableMixin(p types.Provider, base types.TypeID) bool {
	for _, m := range c.mixins {
		if types.IsAssignableTo(p, m.MixinType(), base) {
			return true
		}
	}
	return false
}

// ComposedInterfaces returns the composed interfaces in declaration order
func (c *ClassContext) ComposedInterfaces() []types.TypeID {
	return append([]types.TypeID(nil), c.composedInterfaces...)
}

// ContainsComposedInterface reports whether iface is a composed interface
func (c *ClassContext) ContainsComposedInterface(iface types.TypeID) bool {
	for _, ci := range c.composedInterfaces {
		if ci == iface {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the context configures nothing
func (c *ClassContext) IsEmpty() bool {
	return len(c.mixins) == 0 && len(c.composedInterfaces) == 0
}

// CloneForType returns the same plan applied to another target type, as
// used when a closed generic type inherits its definition's configuration.
func (c *ClassContext) CloneForType(target types.TypeID) *ClassContext {
	if target == c.target {
		return c
	}
	clone := &ClassContext{
		target:             target,
		mixins:             make([]*MixinContext, len(c.mixins)),
		index:              make(map[types.TypeID]int, len(c.mixins)),
		composedInterfaces: c.ComposedInterfaces(),
	}
	for i, m := range c.mixins {
		clone.mixins[i] = m.ForTarget(target)
		clone.index[m.MixinType()] = i
	}
	return clone
}

// Equal compares two contexts structurally: same target, same mixins in the
// same order, and the same set of composed interfaces. Origins are ignored.
func (c *ClassContext) Equal(other *ClassContext) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.target != other.target ||
		len(c.mixins) != len(other.mixins) ||
		len(c.composedInterfaces) != len(other.composedInterfaces) {
		return false
	}
	for i := range c.mixins {
		if !c.mixins[i].Equal(other.mixins[i]) {
			return false
		}
	}
	for _, iface := range c.composedInterfaces {
		if !other.ContainsComposedInterface(iface) {
			return false
		}
	}
	return true
}

// String returns a compact description of the plan
func (c *ClassContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: [", c.target)
	for i, m := range c.mixins {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(m.MixinType()))
	}
	b.WriteString("]")
	if len(c.composedInterfaces) > 0 {
		ifaces := make([]string, len(c.composedInterfaces))
		for i, iface := range c.composedInterfaces {
			ifaces[i] = string(iface)
		}
		fmt.Fprintf(&b, " implements [%s]", strings.Join(ifaces, ", "))
	}
	return b.String()
}
