package suppression

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

// Suppressed records an inherited mixin removed by a rule
type Suppressed struct {
	Mixin *model.MixinContext
	Rule  Rule
}

// Result is the outcome of applying rules to an inherited mixin set
type Result struct {
	// Survivors keeps the inherited order
	Survivors  []*model.MixinContext
	Suppressed []Suppressed
}

// SurvivorTypes returns the mixin types of the survivors, in order
func (r Result) SurvivorTypes() []types.TypeID {
	ids := make([]types.TypeID, len(r.Survivors))
	for i, m := range r.Survivors {
		ids[i] = m.MixinType()
	}
	return ids
}

// Engine evaluates suppression rules against inherited mixins
type Engine struct {
	provider types.Provider
	strict   bool
	logger   *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithStrictReplacement makes replacement rules whose replacement is missing
// fail instead of leaving the inherited mixin in place.
func WithStrictReplacement(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLogger sets the logger used for suppression events
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine using p for subtype tests. p may be nil, in
// which case only exact type and generic-spelling matches apply.
func NewEngine(p types.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider: p,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strict reports whether strict replacement mode is enabled
func (e *Engine) Strict() bool {
	return e.strict
}

// Apply filters inherited for target. Each inherited mixin is tested against
// the rules in registration order and the first matching rule removes it.
func (e *Engine) Apply(target types.TypeID, inherited []*model.MixinContext, local LocalSet, rules []Rule) (Result, error) {
	result := Result{Survivors: make([]*model.MixinContext, 0, len(inherited))}
	if len(rules) == 0 {
		result.Survivors = append(result.Survivors, inherited...)
		return result, nil
	}

	for _, m := range inherited {
		var matched Rule
		for _, rule := range rules {
			if !types.IsAssignableTo(e.provider, m.MixinType(), rule.Base()) {
				continue
			}
			if rule.Active(local) {
				matched = rule
				break
			}
			if repl, ok := rule.(ReplacementRule); ok && e.strict {
				return Result{}, errors.NewMissingReplacement(target, m.MixinType(), repl.Replacement).
					WithOrigin(m.Origin().String())
			}
		}

		if matched == nil {
			result.Survivors = append(result.Survivors, m)
			continue
		}

		e.logger.Debug("mixin suppressed",
			zap.String("target", target.String()),
			zap.String("mixin", m.MixinType().String()),
			zap.Stringer("rule", matched),
		)
		result.Suppressed = append(result.Suppressed, Suppressed{Mixin: m, Rule: matched})
	}

	return result, nil
}
