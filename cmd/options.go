// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/jshint/jshint-sub001/lint"
	"github.com/jshint/jshint-sub001/options"
)

// Option configures an exported command factory (LintCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	analyzers  []*lint.Analyzer
	predefined map[string]bool
	configure  []func(*options.Options)
}

// WithAnalyzers adds embedder-defined checks to the built-in set.
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(c *cmdConfig) { c.analyzers = append(c.analyzers, analyzers...) }
}

// WithPredefined declares globals provided by the embedding environment.
// The value tells whether the global may be assigned.
func WithPredefined(globals map[string]bool) Option {
	return func(c *cmdConfig) {
		if c.predefined == nil {
			c.predefined = make(map[string]bool, len(globals))
		}
		for name, writable := range globals {
			c.predefined[name] = writable
		}
	}
}

// WithOptions adjusts the options resolved from configuration before any
// file is linted.
func WithOptions(fn func(*options.Options)) Option {
	return func(c *cmdConfig) { c.configure = append(c.configure, fn) }
}

func newCmdConfig(opts []Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}

// apply runs the WithOptions hooks and merges predefined globals into o.
func (c *cmdConfig) apply(o *options.Options) {
	for _, fn := range c.configure {
		fn(o)
	}
	for name, writable := range c.predefined {
		o.Globals[name] = writable
	}
}

// allAnalyzers returns the built-in checks followed by the embedder's.
func (c *cmdConfig) allAnalyzers() []*lint.Analyzer {
	return append(lint.DefaultAnalyzers(), c.analyzers...)
}
