package mixins

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/inheritance"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

// MixinConfigurationBuilder accumulates class builders and builds them into
// a MixinConfiguration. It is not safe for concurrent mutation.
type MixinConfigurationBuilder struct {
	parent   *MixinConfiguration
	opts     options
	targets  []types.TypeID
	builders map[types.TypeID]ClassBuilder
}

// NewMixinConfigurationBuilder creates a configuration builder. parent may
// be nil; otherwise its contexts are inherited and its provider is used
// unless WithProvider overrides it.
func NewMixinConfigurationBuilder(parent *MixinConfiguration, opts ...Option) *MixinConfigurationBuilder {
	o := defaultOptions()
	if parent != nil {
		o.provider = parent.provider
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &MixinConfigurationBuilder{
		parent:   parent,
		opts:     o,
		builders: make(map[types.TypeID]ClassBuilder),
	}
}

// ParentConfiguration returns the configuration being built on, or nil
func (cb *MixinConfigurationBuilder) ParentConfiguration() *MixinConfiguration {
	return cb.parent
}

// ForClass returns the class builder of target, creating it on first use.
// A custom ClassBuilder installed with AddClassBuilder is replaced.
func (cb *MixinConfigurationBuilder) ForClass(target types.TypeID) *ClassContextBuilder {
	if existing, ok := cb.builders[target]; ok {
		if b, ok := existing.(*ClassContextBuilder); ok {
			return b
		}
	}
	b := newClassContextBuilder(cb, target, cb.opts)
	cb.install(b)
	return b
}

// AddClassBuilder installs a custom class builder for its target, replacing
// any existing builder of that target.
func (cb *MixinConfigurationBuilder) AddClassBuilder(b ClassBuilder) *MixinConfigurationBuilder {
	cb.install(b)
	return cb
}

func (cb *MixinConfigurationBuilder) install(b ClassBuilder) {
	if _, exists := cb.builders[b.Target()]; !exists {
		cb.targets = append(cb.targets, b.Target())
	}
	cb.builders[b.Target()] = b
}

// ClassBuilders returns the class builders in creation order
func (cb *MixinConfigurationBuilder) ClassBuilders() []ClassBuilder {
	result := make([]ClassBuilder, len(cb.targets))
	for i, target := range cb.targets {
		result[i] = cb.builders[target]
	}
	return result
}

// AddMixinToClass declares mixin on target in one call. A zero origin is
// replaced with the call site. suppressed lists inherited mixin subtrees the
// new mixin replaces.
func (cb *MixinConfigurationBuilder) AddMixinToClass(
	kind model.MixinKind,
	target types.TypeID,
	mixin types.TypeID,
	origin model.Origin,
	dependencies []types.TypeID,
	suppressed []types.TypeID,
) *MixinConfigurationBuilder {
	if origin.IsZero() {
		origin = model.CaptureOrigin(1)
	}
	mb := cb.ForClass(target).addMixin(mixin, origin)
	mb.OfKind(kind)
	for _, dep := range dependencies {
		mb.withDependency(dep, origin)
	}
	mb.ReplaceMixins(suppressed...)
	return cb
}

// Err returns the registration errors of every class builder
func (cb *MixinConfigurationBuilder) Err() error {
	var err error
	for _, b := range cb.ClassBuilders() {
		err = errors.Append(err, b.Err())
	}
	return err
}

// BuildConfiguration resolves every configured target type and every type
// of the parent configuration. Errors of all targets are reported together;
// no configuration is returned when any target fails.
func (cb *MixinConfigurationBuilder) BuildConfiguration() (*MixinConfiguration, error) {
	if err := cb.Err(); err != nil {
		return nil, err
	}

	builders := make(map[types.TypeID]ClassBuilder, len(cb.builders))
	for target, b := range cb.builders {
		builders[target] = b
	}
	targets := append([]types.TypeID(nil), cb.targets...)
	if cb.parent != nil {
		for _, target := range cb.parent.targets {
			if _, ok := builders[target]; !ok {
				targets = append(targets, target)
			}
		}
	}

	resolver := inheritance.NewResolver(
		cb.opts.inheritancePolicy(),
		newDeclarationSource(cb.parent, builders, cb.opts),
		inheritance.WithLogger(cb.opts.logger),
	)

	var err error
	contexts := make(map[types.TypeID]*model.ClassContext, len(targets))
	for _, target := range targets {
		ctx, resolveErr := resolver.Resolve(target)
		if resolveErr != nil {
			err = errors.Append(err, resolveErr)
			continue
		}
		contexts[target] = ctx
	}
	if err != nil {
		return nil, err
	}

	cfg := newMixinConfiguration(cb.parent, contexts, resolver, cb.opts)
	cb.opts.logger.Debug("mixin configuration built",
		zap.Stringer("id", cfg.ID()),
		zap.Int("targets", cfg.Len()),
		zap.Bool("has_parent", cb.parent != nil),
	)
	return cfg, nil
}

// declarationSource feeds the resolver. A target with a builder inherits
// the parent configuration's context of the same type ahead of its
// ancestors; a target without a builder starts from the parent context as
// its local declarations.
type declarationSource struct {
	parent   *MixinConfiguration
	builders map[types.TypeID]ClassBuilder
	opts     options
}

func newDeclarationSource(parent *MixinConfiguration, builders map[types.TypeID]ClassBuilder, o options) *declarationSource {
	return &declarationSource{parent: parent, builders: builders, opts: o}
}

func (s *declarationSource) parentContext(target types.TypeID) (*model.ClassContext, bool) {
	if s.parent == nil {
		return nil, false
	}
	return s.parent.ExactContext(target)
}

// Declaration implements inheritance.Source
func (s *declarationSource) Declaration(target types.TypeID) inheritance.Declaration {
	parentCtx, hasParent := s.parentContext(target)

	if b, ok := s.builders[target]; ok {
		if !hasParent {
			return b
		}
		return inheritance.DeclarationFunc(func(inherited ...*model.ClassContext) (*model.ClassContext, error) {
			return b.Build(append([]*model.ClassContext{parentCtx}, inherited...)...)
		})
	}

	if !hasParent {
		return nil
	}
	return inheritance.DeclarationFunc(func(inherited ...*model.ClassContext) (*model.ClassContext, error) {
		if len(inherited) == 0 {
			return parentCtx, nil
		}
		seeded := newClassContextBuilder(nil, target, s.opts)
		for _, m := range parentCtx.Mixins() {
			mb := seeded.addMixin(m.MixinType(), m.Origin()).
				OfKind(m.Kind()).
				WithIntroducedMemberVisibility(m.Visibility())
			for _, dep := range m.Dependencies() {
				mb.withDependency(dep, m.Origin())
			}
		}
		seeded.AddComposedInterfaces(parentCtx.ComposedInterfaces()...)
		return seeded.Build(inherited...)
	})
}
