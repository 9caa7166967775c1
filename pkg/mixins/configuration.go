// Package mixins is the declaration surface of the mixin configuration engine.
//
// Declarations are accumulated in a MixinConfigurationBuilder, one
// ClassContextBuilder per target type, and built into an immutable
// MixinConfiguration holding the resolved ClassContext of every configured
// target:
//
//	builder := mixins.NewMixinConfigurationBuilder(nil, mixins.WithProvider(registry))
//	builder.ForClass("Base").AddMixin("Logging")
//	builder.ForClass("Derived").AddMixin("Auditing").WithDependency("Logging")
//
//	cfg, err := builder.BuildConfiguration()
//	if err != nil {
//	    return err
//	}
//	ctx, _ := cfg.ResolveContext("Derived") // [Logging, Auditing]
//
// A built configuration can be made the active configuration of a scope with
// ScopeStack, or carried in a context.Context with WithConfiguration.
package mixins

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/pkg/inheritance"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

// MixinConfiguration is the immutable set of resolved class contexts.
// It is safe for concurrent use.
type MixinConfiguration struct {
	id       uuid.UUID
	parent   *MixinConfiguration
	contexts map[types.TypeID]*model.ClassContext
	targets  []types.TypeID
	resolver *inheritance.Resolver
	provider types.Provider
	logger   *zap.Logger
}

// EmptyConfiguration returns a configuration without class contexts
func EmptyConfiguration() *MixinConfiguration {
	return &MixinConfiguration{
		id:       uuid.New(),
		contexts: make(map[types.TypeID]*model.ClassContext),
		logger:   zap.NewNop(),
	}
}

func newMixinConfiguration(parent *MixinConfiguration, contexts map[types.TypeID]*model.ClassContext, resolver *inheritance.Resolver, o options) *MixinConfiguration {
	targets := make([]types.TypeID, 0, len(contexts))
	for target := range contexts {
		targets = append(targets, target)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	return &MixinConfiguration{
		id:       uuid.New(),
		parent:   parent,
		contexts: contexts,
		targets:  targets,
		resolver: resolver,
		provider: o.provider,
		logger:   o.logger,
	}
}

// ID identifies the configuration for diagnostics
func (c *MixinConfiguration) ID() uuid.UUID {
	return c.id
}

// ParentConfiguration returns the configuration this one was built on, or nil
func (c *MixinConfiguration) ParentConfiguration() *MixinConfiguration {
	return c.parent
}

// Provider returns the type metadata the configuration was built with
func (c *MixinConfiguration) Provider() types.Provider {
	return c.provider
}

// Len returns the number of configured target types
func (c *MixinConfiguration) Len() int {
	return len(c.contexts)
}

// ClassContexts returns the configured contexts sorted by target type
func (c *MixinConfiguration) ClassContexts() []*model.ClassContext {
	result := make([]*model.ClassContext, len(c.targets))
	for i, target := range c.targets {
		result[i] = c.contexts[target]
	}
	return result
}

// ExactContext returns the context configured for exactly target
func (c *MixinConfiguration) ExactContext(target types.TypeID) (*model.ClassContext, bool) {
	ctx, ok := c.contexts[target]
	return ctx, ok
}

// Resolve returns the context of target, falling back through the
// inheritance policy when target has no exact entry. Derived results are
// memoized. Resolve returns nil when target has no mixins or composed
// interfaces.
func (c *MixinConfiguration) Resolve(target types.TypeID) (*model.ClassContext, error) {
	if ctx, ok := c.contexts[target]; ok {
		return ctx, nil
	}
	if c.resolver == nil {
		return nil, nil
	}

	ctx, err := c.resolver.Resolve(target)
	if err != nil {
		return nil, err
	}
	if ctx.IsEmpty() {
		return nil, nil
	}
	return ctx, nil
}

// ResolveContext is like Resolve but reports resolution errors as a miss
func (c *MixinConfiguration) ResolveContext(target types.TypeID) (*model.ClassContext, bool) {
	ctx, err := c.Resolve(target)
	if err != nil {
		c.logger.Debug("class context resolution failed",
			zap.String("target", target.String()),
			zap.Error(err),
		)
		return nil, false
	}
	return ctx, ctx != nil
}

// ContainsMixin reports whether the resolved context of target has mixinType
func (c *MixinConfiguration) ContainsMixin(target, mixinType types.TypeID) bool {
	ctx, ok := c.ResolveContext(target)
	return ok && ctx.ContainsMixin(mixinType)
}
