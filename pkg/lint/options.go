package lint

import "github.com/leapstack-labs/spfxdoctor/pkg/core"

// Option customizes a rule built by NewDependencyRule or NewJSONRule.
type Option func(*options)

type options struct {
	title       string
	description string
	resolution  string
	severity    *core.Severity
	supersedes  []string

	// dependency rules only
	optional bool
	noAdd    bool
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// apply overrides the generated metadata with explicit options.
func (o options) apply(def *RuleDef) {
	if o.title != "" {
		def.Title = o.title
	}
	if o.description != "" {
		def.Description = o.description
	}
	if o.resolution != "" {
		def.Resolution = o.resolution
	}
	if o.severity != nil {
		def.Severity = *o.severity
	}
	if len(o.supersedes) > 0 {
		def.Supersedes = append([]string(nil), o.supersedes...)
	}
}

// WithTitle overrides the rule title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithDescription overrides the rule description.
func WithDescription(description string) Option {
	return func(o *options) { o.description = description }
}

// WithResolution overrides the generated resolution.
func WithResolution(resolution string) Option {
	return func(o *options) { o.resolution = resolution }
}

// WithSeverity overrides the default severity.
func WithSeverity(s core.Severity) Option {
	return func(o *options) { o.severity = &s }
}

// WithSupersedes lists rule codes made redundant when the rule fires.
func WithSupersedes(ids ...string) Option {
	return func(o *options) { o.supersedes = append(o.supersedes, ids...) }
}

// Optional marks a dependency whose absence is not a violation.
func Optional() Option {
	return func(o *options) { o.optional = true }
}

// UpdateOnly marks a dependency rule that corrects a referenced package
// but never asks to add a missing one.
func UpdateOnly() Option {
	return func(o *options) { o.noAdd = true }
}
