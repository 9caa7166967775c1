package model

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/types"
)

// MixinSpec holds the attributes of a mixin context before validation
type MixinSpec struct {
	Target       types.TypeID
	MixinType    types.TypeID
	Kind         MixinKind
	Visibility   MemberVisibility
	Dependencies []types.TypeID
	Origin       Origin
}

// MixinContext is the immutable description of one mixin applied to one
// target type. Equality is structural over every attribute except the origin.
type MixinContext struct {
	target       types.TypeID
	mixinType    types.TypeID
	kind         MixinKind
	visibility   MemberVisibility
	dependencies []types.TypeID
	origin       Origin
}

// NewMixinContext validates spec and creates a mixin context. Duplicate
// dependencies collapse to their first occurrence.
func NewMixinContext(spec MixinSpec) (*MixinContext, error) {
	if spec.Target.IsEmpty() {
		return nil, errors.NewEmptyTypeID(spec.Target, "target type").WithOrigin(spec.Origin.String())
	}
	if spec.MixinType.IsEmpty() {
		return nil, errors.NewEmptyTypeID(spec.Target, "mixin type").WithOrigin(spec.Origin.String())
	}

	deps := make([]types.TypeID, 0, len(spec.Dependencies))
	seen := make(map[types.TypeID]bool, len(spec.Dependencies))
	for _, dep := range spec.Dependencies {
		if dep.IsEmpty() {
			return nil, errors.NewEmptyTypeID(spec.Target, "dependency").WithOrigin(spec.Origin.String())
		}
		if dep == spec.MixinType {
			return nil, errors.NewSelfDependency(spec.Target, spec.MixinType).WithOrigin(spec.Origin.String())
		}
		if seen[dep] {
			continue
		}
		seen[dep] = true
		deps = append(deps, dep)
	}

	return &MixinContext{
		target:       spec.Target,
		mixinType:    spec.MixinType,
		kind:         spec.Kind,
		visibility:   spec.Visibility,
		dependencies: deps,
		origin:       spec.Origin,
	}, nil
}

// Target returns the target type the mixin applies to
func (m *MixinContext) Target() types.TypeID {
	return m.target
}

// MixinType returns the mixin type
func (m *MixinContext) MixinType() types.TypeID {
	return m.mixinType
}

// Kind returns the mixin kind
func (m *MixinContext) Kind() MixinKind {
	return m.kind
}

// Visibility returns the visibility of introduced members
func (m *MixinContext) Visibility() MemberVisibility {
	return m.visibility
}

// Dependencies returns a copy of the explicit dependencies, in declaration order
func (m *MixinContext) Dependencies() []types.TypeID {
	return append([]types.TypeID(nil), m.dependencies...)
}

// DependsOn reports whether the mixin explicitly depends on dep
func (m *MixinContext) DependsOn(dep types.TypeID) bool {
	for _, d := range m.dependencies {
		if d == dep {
			return true
		}
	}
	return false
}

// Origin returns the registration provenance
func (m *MixinContext) Origin() Origin {
	return m.origin
}

// Spec returns the attributes of the context, suitable for deriving a new one
func (m *MixinContext) Spec() MixinSpec {
	return MixinSpec{
		Target:       m.target,
		MixinType:    m.mixinType,
		Kind:         m.kind,
		Visibility:   m.visibility,
		Dependencies: m.Dependencies(),
		Origin:       m.origin,
	}
}

// WithAdditionalDependencies returns a copy that also depends on deps
func (m *MixinContext) WithAdditionalDependencies(deps ...types.TypeID) (*MixinContext, error) {
	spec := m.Spec()
	spec.Dependencies = append(spec.Dependencies, deps...)
	return NewMixinContext(spec)
}

// ForTarget returns a copy of the context applied to another target type
func (m *MixinContext) ForTarget(target types.TypeID) *MixinContext {
	if target == m.target {
		return m
	}
	clone := *m
	clone.target = target
	clone.dependencies = m.Dependencies()
	return &clone
}

// Equal compares two contexts structurally, ignoring their origins
func (m *MixinContext) Equal(other *MixinContext) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.target != other.target ||
		m.mixinType != other.mixinType ||
		m.kind != other.kind ||
		m.visibility != other.visibility ||
		len(m.dependencies) != len(other.dependencies) {
		return false
	}
	for i := range m.dependencies {
		if m.dependencies[i] != other.dependencies[i] {
			return false
		}
	}
	return true
}

// String returns a compact description of the mixin context
func (m *MixinContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s)", m.mixinType, m.kind, m.visibility)
	if len(m.dependencies) > 0 {
		deps := make([]string, len(m.dependencies))
		for i, d := range m.dependencies {
			deps[i] = string(d)
		}
		fmt.Fprintf(&b, " after [%s]", strings.Join(deps, ", "))
	}
	return b.String()
}
