package mixins

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/inheritance"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/ordering"
	"github.com/conduit-lang/mixins/pkg/suppression"
	"github.com/conduit-lang/mixins/pkg/types"
)

// ClassBuilder is the capability a configuration needs from the builder of
// one target type. ClassContextBuilder is the production implementation.
type ClassBuilder interface {
	// Target returns the target type being configured
	Target() types.TypeID
	// Err returns the first registration error, if any
	Err() error
	// Build merges the inherited contexts with the local declarations
	Build(inherited ...*model.ClassContext) (*model.ClassContext, error)
}

var _ ClassBuilder = (*ClassContextBuilder)(nil)

// deferredDependency is an explicit dependency declared before its mixin
type deferredDependency struct {
	mixin      types.TypeID
	dependency types.TypeID
	origin     model.Origin
}

// ClassContextBuilder accumulates the mixin declarations of one target type.
//
// Mutating methods return the builder for chaining. The first registration
// error is kept: it is returned by Err and Build, and every later mutation
// is ignored. Build never changes the builder, so the same builder can be
// built again with other inherited contexts.
//
// A ClassContextBuilder is not safe for concurrent mutation.
type ClassContextBuilder struct {
	owner  *MixinConfigurationBuilder
	target types.TypeID
	opts   options

	mixins     []*MixinContextBuilder
	index      map[types.TypeID]*MixinContextBuilder
	interfaces []types.TypeID
	rules      []suppression.Rule
	deferred   []deferredDependency
	cleared    bool

	err error
}

// NewClassContextBuilder creates a standalone builder for target
func NewClassContextBuilder(target types.TypeID, opts ...Option) *ClassContextBuilder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newClassContextBuilder(nil, target, o)
}

func newClassContextBuilder(owner *MixinConfigurationBuilder, target types.TypeID, o options) *ClassContextBuilder {
	b := &ClassContextBuilder{
		owner:  owner,
		target: target,
		opts:   o,
		index:  make(map[types.TypeID]*MixinContextBuilder),
	}
	if target.IsEmpty() {
		b.fail(errors.NewEmptyTypeID(target, "target type"))
	}
	return b
}

func (b *ClassContextBuilder) fail(err error) {
	if b.err != nil || err == nil {
		return
	}
	b.err = err
	b.opts.logger.Debug("class builder failed",
		zap.String("target", b.target.String()),
		zap.Error(err),
	)
}

// Target returns the target type
func (b *ClassContextBuilder) Target() types.TypeID {
	return b.target
}

// Err returns the first registration error, if any
func (b *ClassContextBuilder) Err() error {
	return b.err
}

// Configuration returns the owning configuration builder, or nil for a
// standalone builder.
func (b *ClassContextBuilder) Configuration() *MixinConfigurationBuilder {
	return b.owner
}

// Mixins returns the local mixin builders in registration order
func (b *ClassContextBuilder) Mixins() []*MixinContextBuilder {
	return append([]*MixinContextBuilder(nil), b.mixins...)
}

// Mixin returns the local builder of mixinType
func (b *ClassContextBuilder) Mixin(mixinType types.TypeID) (*MixinContextBuilder, bool) {
	mb, ok := b.index[mixinType]
	return mb, ok
}

// ContainsMixin reports whether mixinType is declared locally
func (b *ClassContextBuilder) ContainsMixin(mixinType types.TypeID) bool {
	_, ok := b.index[mixinType]
	return ok
}

// ComposedInterfaces returns the locally declared composed interfaces
func (b *ClassContextBuilder) ComposedInterfaces() []types.TypeID {
	return append([]types.TypeID(nil), b.interfaces...)
}

// SuppressionRules returns the suppression rules in registration order
func (b *ClassContextBuilder) SuppressionRules() []suppression.Rule {
	return append([]suppression.Rule(nil), b.rules...)
}

// InheritanceSuppressed reports whether Clear was called
func (b *ClassContextBuilder) InheritanceSuppressed() bool {
	return b.cleared
}

// AddMixin declares mixinType on the target with the default kind and
// visibility. The origin defaults to the call site.
func (b *ClassContextBuilder) AddMixin(mixinType types.TypeID) *MixinContextBuilder {
	return b.addMixin(mixinType, model.CaptureOrigin(1))
}

func (b *ClassContextBuilder) addMixin(mixinType types.TypeID, origin model.Origin) *MixinContextBuilder {
	mb := newMixinContextBuilder(b, mixinType, origin)
	if b.err != nil {
		return mb
	}
	if mixinType.IsEmpty() {
		b.fail(errors.NewEmptyTypeID(b.target, "mixin type").WithOrigin(origin.String()))
		return mb
	}
	if _, exists := b.index[mixinType]; exists {
		b.fail(errors.NewDuplicateMixin(b.target, mixinType).WithOrigin(origin.String()))
		return mb
	}

	b.index[mixinType] = mb
	b.mixins = append(b.mixins, mb)

	// dependencies declared before the mixin itself
	pending := b.deferred[:0:0]
	for _, d := range b.deferred {
		if d.mixin == mixinType {
			mb.withDependency(d.dependency, d.origin)
		} else {
			pending = append(pending, d)
		}
	}
	b.deferred = pending
	return mb
}

// AddMixins declares several mixins without ordering constraints
func (b *ClassContextBuilder) AddMixins(mixinTypes ...types.TypeID) *ClassContextBuilder {
	origin := model.CaptureOrigin(1)
	for _, m := range mixinTypes {
		b.addMixin(m, origin)
	}
	return b
}

// AddOrderedMixins declares several mixins, each depending on the previous one
func (b *ClassContextBuilder) AddOrderedMixins(mixinTypes ...types.TypeID) *ClassContextBuilder {
	origin := model.CaptureOrigin(1)
	var previous types.TypeID
	for _, m := range mixinTypes {
		mb := b.addMixin(m, origin)
		if previous != "" {
			mb.withDependency(previous, origin)
		}
		previous = m
	}
	return b
}

// EnsureMixin returns the builder of mixinType, declaring it if needed
func (b *ClassContextBuilder) EnsureMixin(mixinType types.TypeID) *MixinContextBuilder {
	if mb, ok := b.index[mixinType]; ok {
		return mb
	}
	return b.addMixin(mixinType, model.CaptureOrigin(1))
}

// RemoveMixin removes a local mixin declaration and its dependencies
func (b *ClassContextBuilder) RemoveMixin(mixinType types.TypeID) *ClassContextBuilder {
	if b.err != nil {
		return b
	}
	if _, ok := b.index[mixinType]; !ok {
		return b
	}
	delete(b.index, mixinType)
	for i, mb := range b.mixins {
		if mb.mixinType == mixinType {
			b.mixins = append(b.mixins[:i:i], b.mixins[i+1:]...)
			break
		}
	}
	return b
}

// AddMixinDependency declares that mixin must follow dependency. mixin may
// be declared later, or inherited; it must be part of the context at build
// time.
func (b *ClassContextBuilder) AddMixinDependency(mixin, dependency types.TypeID) *ClassContextBuilder {
	if b.err != nil {
		return b
	}
	origin := model.CaptureOrigin(1)
	if mb, ok := b.index[mixin]; ok {
		mb.withDependency(dependency, origin)
		return b
	}
	switch {
	case mixin.IsEmpty():
		b.fail(errors.NewEmptyTypeID(b.target, "mixin type").WithOrigin(origin.String()))
	case dependency.IsEmpty():
		b.fail(errors.NewEmptyTypeID(b.target, "dependency").WithOrigin(origin.String()))
	case mixin == dependency:
		b.fail(errors.NewSelfDependency(b.target, mixin).WithOrigin(origin.String()))
	default:
		b.deferred = append(b.deferred, deferredDependency{mixin: mixin, dependency: dependency, origin: origin})
	}
	return b
}

// AddComposedInterface declares an interface the composed type implements
func (b *ClassContextBuilder) AddComposedInterface(iface types.TypeID) *ClassContextBuilder {
	if b.err != nil {
		return b
	}
	if iface.IsEmpty() {
		b.fail(errors.NewEmptyTypeID(b.target, "composed interface"))
		return b
	}
	for _, existing := range b.interfaces {
		if existing == iface {
			return b
		}
	}
	b.interfaces = append(b.interfaces, iface)
	return b
}

// AddComposedInterfaces declares several composed interfaces
func (b *ClassContextBuilder) AddComposedInterfaces(ifaces ...types.TypeID) *ClassContextBuilder {
	for _, iface := range ifaces {
		b.AddComposedInterface(iface)
	}
	return b
}

// RemoveComposedInterface removes a locally declared composed interface
func (b *ClassContextBuilder) RemoveComposedInterface(iface types.TypeID) *ClassContextBuilder {
	if b.err != nil {
		return b
	}
	for i, existing := range b.interfaces {
		if existing == iface {
			b.interfaces = append(b.interfaces[:i:i], b.interfaces[i+1:]...)
			break
		}
	}
	return b
}

// SuppressMixin adds a suppression rule evaluated against inherited mixins
func (b *ClassContextBuilder) SuppressMixin(rule suppression.Rule) *ClassContextBuilder {
	if b.err != nil {
		return b
	}
	if rule == nil || rule.Base().IsEmpty() {
		b.fail(errors.NewEmptyTypeID(b.target, "suppressed type"))
		return b
	}
	if repl, ok := rule.(suppression.ReplacementRule); ok {
		if err := suppression.ValidateNotSelf(b.opts.provider, b.target, repl.Replacement, repl.BaseType); err != nil {
			b.fail(err)
			return b
		}
	}
	b.rules = append(b.rules, rule)
	return b
}

// SuppressMixinType removes inherited mixins equal to or derived from base
func (b *ClassContextBuilder) SuppressMixinType(base types.TypeID) *ClassContextBuilder {
	return b.SuppressMixin(suppression.NewSubtreeRule(base))
}

// SuppressMixins removes inherited mixins of every given subtree
func (b *ClassContextBuilder) SuppressMixins(bases ...types.TypeID) *ClassContextBuilder {
	for _, base := range bases {
		b.SuppressMixinType(base)
	}
	return b
}

// ReplaceMixin declares replacement and suppresses inherited mixins equal to
// or derived from replaced while replacement is present. A mixin cannot
// replace itself or its own open generic definition.
func (b *ClassContextBuilder) ReplaceMixin(replaced, replacement types.TypeID) *MixinContextBuilder {
	origin := model.CaptureOrigin(1)
	if b.err == nil {
		if err := suppression.ValidateNotSelf(b.opts.provider, b.target, replacement, replaced); err != nil {
			if cfgErr, ok := errors.As(err); ok {
				cfgErr.WithOrigin(origin.String())
			}
			b.fail(err)
		}
	}
	mb := b.addMixin(replacement, origin)
	b.SuppressMixin(suppression.NewReplacementRule(replaced, replacement))
	return mb
}

// Clear drops every local declaration and suppresses all inheritance, so
// the built context contains exactly what is declared afterwards.
func (b *ClassContextBuilder) Clear() *ClassContextBuilder {
	if b.err != nil {
		return b
	}
	b.mixins = nil
	b.index = make(map[types.TypeID]*MixinContextBuilder)
	b.interfaces = nil
	b.rules = nil
	b.deferred = nil
	b.cleared = true
	return b
}

// ForClass returns the builder of another target. Builders owned by a
// configuration builder navigate within it; standalone builders create a
// new standalone builder with the same options.
func (b *ClassContextBuilder) ForClass(target types.TypeID) *ClassContextBuilder {
	if b.owner != nil {
		return b.owner.ForClass(target)
	}
	return newClassContextBuilder(nil, target, b.opts)
}

// BuildMixins returns the local mixin contexts without inheritance
func (b *ClassContextBuilder) BuildMixins() ([]*model.MixinContext, error) {
	if b.err != nil {
		return nil, b.err
	}
	locals := make([]*model.MixinContext, 0, len(b.mixins))
	for _, mb := range b.mixins {
		mc, err := mb.build()
		if err != nil {
			return nil, err
		}
		locals = append(locals, mc)
	}
	return locals, nil
}

// Build merges inherited with the local declarations:
//
//  1. inherited contexts are united in order and retargeted to the target;
//     nothing is inherited after Clear
//  2. inherited mixins overridden by a local mixin of the same type, a
//     derived type or a closed generic of it are dropped
//  3. suppression rules filter the remaining inherited mixins
//  4. inherited survivors followed by local mixins are sorted by their
//     explicit dependencies
func (b *ClassContextBuilder) Build(inherited ...*model.ClassContext) (*model.ClassContext, error) {
	locals, err := b.BuildMixins()
	if err != nil {
		return nil, err
	}

	var in inheritance.Inherited
	if !b.cleared {
		in = inheritance.Unite(b.target, inherited...)
	}

	overridden := make([]*model.MixinContext, 0, len(in.Mixins))
	for _, m := range in.Mixins {
		if !b.overriddenLocally(m.MixinType()) {
			overridden = append(overridden, m)
		}
	}

	engine := suppression.NewEngine(b.opts.provider,
		suppression.WithStrictReplacement(b.opts.strict),
		suppression.WithLogger(b.opts.logger),
	)
	result, err := engine.Apply(b.target, overridden, b, b.rules)
	if err != nil {
		return nil, err
	}

	survivors, err := b.applyDeferred(result.Survivors)
	if err != nil {
		return nil, err
	}

	sorted, err := ordering.Sort(b.target, append(survivors, locals...))
	if err != nil {
		return nil, err
	}

	ctx, err := model.NewClassContext(b.target, sorted, append(in.Interfaces, b.interfaces...))
	if err != nil {
		return nil, err
	}

	b.opts.logger.Debug("class context built",
		zap.String("target", b.target.String()),
		zap.Int("inherited", len(in.Mixins)),
		zap.Int("suppressed", len(result.Suppressed)),
		zap.Stringer("context", ctx),
	)
	return ctx, nil
}

func (b *ClassContextBuilder) overriddenLocally(inherited types.TypeID) bool {
	for _, mb := range b.mixins {
		if types.IsAssignableTo(b.opts.provider, mb.mixinType, inherited) {
			return true
		}
	}
	return false
}

// applyDeferred adds the deferred dependencies to the inherited survivors
// they name. Local mixins take theirs when they are declared.
func (b *ClassContextBuilder) applyDeferred(survivors []*model.MixinContext) ([]*model.MixinContext, error) {
	if len(b.deferred) == 0 {
		return survivors, nil
	}

	result := append([]*model.MixinContext(nil), survivors...)
	for _, d := range b.deferred {
		found := false
		for i, m := range result {
			if m.MixinType() != d.mixin {
				continue
			}
			updated, err := m.WithAdditionalDependencies(d.dependency)
			if err != nil {
				return nil, err
			}
			result[i] = updated
			found = true
			break
		}
		if !found {
			return nil, errors.NewUnknownMixin(b.target, d.mixin, d.dependency, d.origin.String())
		}
	}
	return result, nil
}
