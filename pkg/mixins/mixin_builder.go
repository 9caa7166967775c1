package mixins

import (
	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/suppression"
	"github.com/conduit-lang/mixins/pkg/types"
)

// MixinContextBuilder accumulates the attributes of one mixin on one target.
// Errors are recorded on the owning ClassContextBuilder.
type MixinContextBuilder struct {
	parent     *ClassContextBuilder
	mixinType  types.TypeID
	kind       model.MixinKind
	visibility model.MemberVisibility
	deps       []types.TypeID
	origin     model.Origin
}

func newMixinContextBuilder(parent *ClassContextBuilder, mixinType types.TypeID, origin model.Origin) *MixinContextBuilder {
	return &MixinContextBuilder{
		parent:    parent,
		mixinType: mixinType,
		origin:    origin,
	}
}

// MixinType returns the mixin type
func (mb *MixinContextBuilder) MixinType() types.TypeID {
	return mb.mixinType
}

// Kind returns the configured mixin kind
func (mb *MixinContextBuilder) Kind() model.MixinKind {
	return mb.kind
}

// Visibility returns the configured visibility of introduced members
func (mb *MixinContextBuilder) Visibility() model.MemberVisibility {
	return mb.visibility
}

// Dependencies returns the explicit dependencies in declaration order
func (mb *MixinContextBuilder) Dependencies() []types.TypeID {
	return append([]types.TypeID(nil), mb.deps...)
}

// Origin returns the registration provenance
func (mb *MixinContextBuilder) Origin() model.Origin {
	return mb.origin
}

// Class returns the builder of the target type
func (mb *MixinContextBuilder) Class() *ClassContextBuilder {
	return mb.parent
}

// OfKind sets the mixin kind
func (mb *MixinContextBuilder) OfKind(kind model.MixinKind) *MixinContextBuilder {
	if mb.parent.err == nil {
		mb.kind = kind
	}
	return mb
}

// WithIntroducedMemberVisibility sets the visibility of introduced members
func (mb *MixinContextBuilder) WithIntroducedMemberVisibility(v model.MemberVisibility) *MixinContextBuilder {
	if mb.parent.err == nil {
		mb.visibility = v
	}
	return mb
}

// WithOrigin replaces the captured call-site origin
func (mb *MixinContextBuilder) WithOrigin(origin model.Origin) *MixinContextBuilder {
	if mb.parent.err == nil {
		mb.origin = origin
	}
	return mb
}

// WithDependency declares that the mixin must follow dependency
func (mb *MixinContextBuilder) WithDependency(dependency types.TypeID) *MixinContextBuilder {
	return mb.withDependency(dependency, model.CaptureOrigin(1))
}

// WithDependencies declares several explicit dependencies
func (mb *MixinContextBuilder) WithDependencies(dependencies ...types.TypeID) *MixinContextBuilder {
	origin := model.CaptureOrigin(1)
	for _, dep := range dependencies {
		mb.withDependency(dep, origin)
	}
	return mb
}

func (mb *MixinContextBuilder) withDependency(dependency types.TypeID, origin model.Origin) *MixinContextBuilder {
	b := mb.parent
	if b.err != nil {
		return mb
	}
	if dependency.IsEmpty() {
		b.fail(errors.NewEmptyTypeID(b.target, "dependency").WithOrigin(origin.String()))
		return mb
	}
	if dependency == mb.mixinType {
		b.fail(errors.NewSelfDependency(b.target, mb.mixinType).WithOrigin(origin.String()))
		return mb
	}
	for _, existing := range mb.deps {
		if existing == dependency {
			return mb
		}
	}
	mb.deps = append(mb.deps, dependency)
	return mb
}

// ReplaceMixin suppresses inherited mixins equal to or derived from replaced
// while this mixin is declared. The mixin cannot replace itself or its own
// open generic definition.
func (mb *MixinContextBuilder) ReplaceMixin(replaced types.TypeID) *MixinContextBuilder {
	b := mb.parent
	if b.err != nil {
		return mb
	}
	if err := suppression.ValidateNotSelf(b.opts.provider, b.target, mb.mixinType, replaced); err != nil {
		if cfgErr, ok := errors.As(err); ok {
			cfgErr.WithOrigin(model.CaptureOrigin(1).String())
		}
		b.fail(err)
		return mb
	}
	b.SuppressMixin(suppression.NewReplacementRule(replaced, mb.mixinType))
	return mb
}

// ReplaceMixins replaces several inherited mixin subtrees
func (mb *MixinContextBuilder) ReplaceMixins(replaced ...types.TypeID) *MixinContextBuilder {
	for _, r := range replaced {
		mb.ReplaceMixin(r)
	}
	return mb
}

// AddMixin declares another mixin on the same target
func (mb *MixinContextBuilder) AddMixin(mixinType types.TypeID) *MixinContextBuilder {
	return mb.parent.addMixin(mixinType, model.CaptureOrigin(1))
}

// ForClass returns the builder of another target
func (mb *MixinContextBuilder) ForClass(target types.TypeID) *ClassContextBuilder {
	return mb.parent.ForClass(target)
}

func (mb *MixinContextBuilder) build() (*model.MixinContext, error) {
	return model.NewMixinContext(model.MixinSpec{
		Target:       mb.parent.target,
		MixinType:    mb.mixinType,
		Kind:         mb.kind,
		Visibility:   mb.visibility,
		Dependencies: mb.deps,
		Origin:       mb.origin,
	})
}
