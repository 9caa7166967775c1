// Package inheritance resolves the final class context of a target type.
//
// The resolver walks the inheritance policy depth-first, resolves every
// ancestor once, and hands the resolved ancestor contexts to the declaration
// of the target, which merges them with its local mixins and suppression
// rules. Results are memoized per type. Concurrent resolutions of the same
// type share a single computation.
package inheritance

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

// Declaration builds the context of one target from its resolved ancestors
type Declaration interface {
	Build(inherited ...*model.ClassContext) (*model.ClassContext, error)
}

// DeclarationFunc adapts a function to the Declaration interface
type DeclarationFunc func(inherited ...*model.ClassContext) (*model.ClassContext, error)

// Build calls f(inherited...)
func (f DeclarationFunc) Build(inherited ...*model.ClassContext) (*model.ClassContext, error) {
	return f(inherited...)
}

// Source supplies the declaration of a target type. A nil declaration means
// the target declares nothing itself and only combines its ancestors.
type Source interface {
	Declaration(target types.TypeID) Declaration
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(target types.TypeID) Declaration

// Declaration calls f(target)
func (f SourceFunc) Declaration(target types.TypeID) Declaration {
	return f(target)
}

// State is the resolution state of a target type
type State int

const (
	// StateUnresolved types have not been resolved yet, or their last resolution failed
	StateUnresolved State = iota
	// StateResolving types are being resolved
	StateResolving
	// StateResolved types have a memoized context
	StateResolved
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats holds resolver counters
type Stats struct {
	Hits   int64
	Misses int64
	Builds int64
	Errors int64
}

// Resolver resolves and memoizes class contexts per target type.
//
// Thread Safety:
//
//	Resolver is safe for concurrent use. A given type is computed at most
//	once; concurrent callers wait for the in-flight result. Failed
//	resolutions are not memoized.
type Resolver struct {
	policy Policy
	source Source
	logger *zap.Logger

	flight singleflight.Group
	cache  sync.Map // types.TypeID -> *model.ClassContext

	mu        sync.Mutex
	resolving map[types.TypeID]bool

	hits   int64
	misses int64
	builds int64
	errors int64
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for resolution events
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver. A nil policy disables inheritance and a
// nil source declares nothing for any type.
func NewResolver(policy Policy, source Source, opts ...Option) *Resolver {
	if policy == nil {
		policy = NoInheritance
	}
	if source == nil {
		source = SourceFunc(func(types.TypeID) Declaration { return nil })
	}
	r := &Resolver{
		policy:    policy,
		source:    source,
		logger:    zap.NewNop(),
		resolving: make(map[types.TypeID]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the context of target. Types that neither declare nor
// inherit anything resolve to an empty context.
func (r *Resolver) Resolve(target types.TypeID) (*model.ClassContext, error) {
	if target.IsEmpty() {
		return nil, errors.NewEmptyTypeID(target, "target type")
	}
	if ctx, ok := r.cached(target); ok {
		atomic.AddInt64(&r.hits, 1)
		return ctx, nil
	}
	atomic.AddInt64(&r.misses, 1)

	// Cycles are rejected before any flight starts; a type waiting on its
	// own flight would never return.
	if err := r.checkCycles(target); err != nil {
		atomic.AddInt64(&r.errors, 1)
		return nil, err
	}
	return r.resolve(target)
}

// Seed stores an already resolved context, as if it had been resolved
func (r *Resolver) Seed(ctx *model.ClassContext) {
	r.cache.Store(ctx.Target(), ctx)
}

// State returns the resolution state of target
func (r *Resolver) State(target types.TypeID) State {
	if _, ok := r.cache.Load(target); ok {
		return StateResolved
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolving[target] {
		return StateResolving
	}
	return StateUnresolved
}

// Resolved returns the memoized contexts keyed by target
func (r *Resolver) Resolved() map[types.TypeID]*model.ClassContext {
	result := make(map[types.TypeID]*model.ClassContext)
	r.cache.Range(func(key, value interface{}) bool {
		result[key.(types.TypeID)] = value.(*model.ClassContext)
		return true
	})
	return result
}

// Stats returns a snapshot of the resolver counters
func (r *Resolver) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&r.hits),
		Misses: atomic.LoadInt64(&r.misses),
		Builds: atomic.LoadInt64(&r.builds),
		Errors: atomic.LoadInt64(&r.errors),
	}
}

func (r *Resolver) cached(target types.TypeID) (*model.ClassContext, bool) {
	if v, ok := r.cache.Load(target); ok {
		return v.(*model.ClassContext), true
	}
	return nil, false
}

func (r *Resolver) resolve(target types.TypeID) (*model.ClassContext, error) {
	if ctx, ok := r.cached(target); ok {
		return ctx, nil
	}

	v, err, _ := r.flight.Do(string(target), func() (interface{}, error) {
		// a flight that finished just before this one started already stored its result
		if ctx, ok := r.cached(target); ok {
			return ctx, nil
		}

		r.setResolving(target, true)
		defer r.setResolving(target, false)

		ctx, err := r.build(target)
		if err != nil {
			atomic.AddInt64(&r.errors, 1)
			return nil, err
		}
		atomic.AddInt64(&r.builds, 1)
		r.cache.Store(target, ctx)
		return ctx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ClassContext), nil
}

func (r *Resolver) build(target types.TypeID) (*model.ClassContext, error) {
	ancestors := r.policy.Ancestors(target)
	r.logger.Debug("resolving class context",
		zap.String("target", target.String()),
		zap.Strings("ancestors", typeNames(ancestors)),
	)

	var inherited []*model.ClassContext
	for _, ancestor := range ancestors {
		ctx, err := r.resolve(ancestor)
		if err != nil {
			return nil, err
		}
		if !ctx.IsEmpty() {
			inherited = append(inherited, ctx)
		}
	}

	decl := r.source.Declaration(target)
	if decl == nil {
		if len(inherited) == 0 {
			return model.Empty(target), nil
		}
		decl = DeclarationFunc(func(inherited ...*model.ClassContext) (*model.ClassContext, error) {
			return Combine(target, inherited...)
		})
	}

	ctx, err := decl.Build(inherited...)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resolved class context",
		zap.String("target", target.String()),
		zap.Int("mixins", ctx.Len()),
		zap.Stringer("context", ctx),
	)
	return ctx, nil
}

func (r *Resolver) setResolving(target types.TypeID, resolving bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resolving {
		r.resolving[target] = true
	} else {
		delete(r.resolving, target)
	}
}

// checkCycles walks the inheritance graph below target and fails on the
// first type reached again while it is still on the walk path. Memoized
// types end the walk.
func (r *Resolver) checkCycles(target types.TypeID) error {
	done := make(map[types.TypeID]bool)
	onPath := make(map[types.TypeID]bool)

	var walk func(t types.TypeID, path []types.TypeID) error
	walk = func(t types.TypeID, path []types.TypeID) error {
		if onPath[t] {
			start := 0
			for i, p := range path {
				if p == t {
					start = i
					break
				}
			}
			cycle := append(append([]types.TypeID(nil), path[start:]...), t)
			return errors.NewInheritanceCycle(cycle)
		}
		if done[t] {
			return nil
		}
		if _, ok := r.cache.Load(t); ok {
			done[t] = true
			return nil
		}

		onPath[t] = true
		path = append(path, t)
		for _, ancestor := range r.policy.Ancestors(t) {
			if err := walk(ancestor, path); err != nil {
				return err
			}
		}
		onPath[t] = false
		done[t] = true
		return nil
	}

	return walk(target, nil)
}

func typeNames(ids []types.TypeID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
