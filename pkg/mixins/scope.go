package mixins

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/pkg/errors"
)

// ScopeStack holds the active configuration of one logical execution
// context. Scopes nest: entering a scope makes its configuration active and
// closing it restores the previous one. Create one stack per execution
// context; stacks are never shared implicitly.
type ScopeStack struct {
	mu     sync.Mutex
	base   *MixinConfiguration
	frames []*frame
	logger *zap.Logger
}

type frame struct {
	cfg *MixinConfiguration
}

// NewScopeStack creates a stack. base is active while no scope is open and
// defaults to an empty configuration.
func NewScopeStack(base *MixinConfiguration, opts ...Option) *ScopeStack {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if base == nil {
		base = EmptyConfiguration()
	}
	return &ScopeStack{base: base, logger: o.logger}
}

// Active returns the configuration of the innermost open scope
func (s *ScopeStack) Active() *MixinConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return s.base
	}
	return s.frames[len(s.frames)-1].cfg
}

// Depth returns the number of open scopes
func (s *ScopeStack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Enter makes cfg the active configuration until the returned scope is
// closed. A nil cfg activates an empty configuration.
func (s *ScopeStack) Enter(cfg *MixinConfiguration) *Scope {
	if cfg == nil {
		cfg = EmptyConfiguration()
	}
	f := &frame{cfg: cfg}
	s.mu.Lock()
	s.frames = append(s.frames, f)
	depth := len(s.frames)
	s.mu.Unlock()

	s.logger.Debug("configuration scope entered",
		zap.Stringer("configuration", cfg.ID()),
		zap.Int("depth", depth),
	)
	return &Scope{stack: s, frame: f, depth: depth}
}

// Run calls fn with cfg active and restores the previous configuration on
// every exit, including panics.
func (s *ScopeStack) Run(cfg *MixinConfiguration, fn func(*MixinConfiguration) error) (err error) {
	scope := s.Enter(cfg)
	defer func() {
		if closeErr := scope.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(scope.Configuration())
}

// Scope is an open activation of a configuration on a ScopeStack
type Scope struct {
	stack  *ScopeStack
	frame  *frame
	depth  int
	once   sync.Once
	result error
}

// Configuration returns the configuration the scope activated
func (sc *Scope) Configuration() *MixinConfiguration {
	return sc.frame.cfg
}

// Depth returns the stack depth of the scope
func (sc *Scope) Depth() int {
	return sc.depth
}

// Close restores the configuration that was active before the scope was
// entered. Closing twice is a no-op. Closing a scope while inner scopes are
// still open unwinds them too and reports a scope order error, as does
// closing a scope an outer Close already unwound.
func (sc *Scope) Close() error {
	sc.once.Do(func() {
		s := sc.stack
		s.mu.Lock()
		active := len(s.frames)
		pos := -1
		for i, f := range s.frames {
			if f == sc.frame {
				pos = i
				break
			}
		}
		if pos >= 0 {
			s.frames = s.frames[:pos]
		}
		s.mu.Unlock()

		if pos < 0 || pos != active-1 {
			sc.result = errors.NewScopeOrder(sc.depth, active)
		}
		s.logger.Debug("configuration scope exited",
			zap.Stringer("configuration", sc.frame.cfg.ID()),
			zap.Int("depth", sc.depth),
			zap.Error(sc.result),
		)
	})
	return sc.result
}

type configurationKey struct{}

// WithConfiguration returns a context carrying cfg as its active configuration
func WithConfiguration(ctx context.Context, cfg *MixinConfiguration) context.Context {
	return context.WithValue(ctx, configurationKey{}, cfg)
}

// FromContext returns the configuration carried by ctx, if any
func FromContext(ctx context.Context) (*MixinConfiguration, bool) {
	cfg, ok := ctx.Value(configurationKey{}).(*MixinConfiguration)
	return cfg, ok && cfg != nil
}

// ActiveConfiguration returns the configuration carried by ctx, or an empty
// configuration when there is none.
func ActiveConfiguration(ctx context.Context) *MixinConfiguration {
	if cfg, ok := FromContext(ctx); ok {
		return cfg
	}
	return EmptyConfiguration()
}

// Run calls fn with a context carrying cfg. The caller's context is left
// untouched, so the previous configuration stays active for it on every exit.
func Run(ctx context.Context, cfg *MixinConfiguration, fn func(context.Context) error) error {
	return fn(WithConfiguration(ctx, cfg))
}
