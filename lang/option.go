package lang

import "github.com/ardnew/basher/log"

// DefaultMaxDepth is the default maximum nesting depth of function
// definitions. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// DefaultMaxCallDepth is the default maximum depth of nested function calls
// during evaluation. Users may modify this before evaluating to change the
// default.
var DefaultMaxCallDepth = 1000

// options holds parser and evaluator configuration.
type options struct {
	logger       log.Logger
	maxDepth     int
	maxCallDepth int
	noCache      bool
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth of function definitions.
// Non-positive values select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxCallDepth sets the maximum depth of nested function calls.
// A call beyond the limit yields an empty result.
// Non-positive values select [DefaultMaxCallDepth].
func WithMaxCallDepth(depth int) Option {
	return func(o *options) {
		o.maxCallDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCache controls whether [ParseReader] and [Eval] reuse trees from the
// parse cache. Caching is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) {
		o.noCache = !enable
	}
}

// makeOptions returns the defaults overridden by opts.
func makeOptions(opts ...Option) options {
	o := options{
		maxDepth:     DefaultMaxDepth,
		maxCallDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.maxDepth <= 0 {
		o.maxDepth = DefaultMaxDepth
	}

	if o.maxCallDepth <= 0 {
		o.maxCallDepth = DefaultMaxCallDepth
	}

	return o
}
