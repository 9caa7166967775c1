package mixins

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/pkg/inheritance"
	"github.com/conduit-lang/mixins/pkg/types"
)

type options struct {
	provider types.Provider
	policy   inheritance.Policy
	strict   bool
	logger   *zap.Logger
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

func (o options) inheritancePolicy() inheritance.Policy {
	if o.policy != nil {
		return o.policy
	}
	return inheritance.NewDefaultPolicy(o.provider)
}

// Option configures class and configuration builders
type Option func(*options)

// WithProvider sets the type metadata used for subtype tests and the
// default inheritance policy.
func WithProvider(p types.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithPolicy sets the inheritance policy. Defaults to inheritance.DefaultPolicy
// over the configured provider.
func WithPolicy(policy inheritance.Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithStrictReplacement fails builds whose replacement rules match an
// inherited mixin while the replacement itself is missing.
func WithStrictReplacement(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLogger sets the logger for build and resolution events
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
