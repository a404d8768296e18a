package jsonly

import (
	"github.com/viant/tagly/format/text"
)

// Option mutates per call options.
type Option func(o *options)

type options struct {
	indent     string
	reviver    Reviver
	caseFormat text.CaseFormat
}

func newOptions(opts []Option) *options {
	result := &options{}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// WithIndent requests multi line pretty output with the supplied indent.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}

// WithReviver sets a per node reviver applied before structural mapping.
func WithReviver(reviver Reviver) Option {
	return func(o *options) {
		o.reviver = reviver
	}
}

// WithCaseFormat overrides the property name transformers for this call with a
// case format based pair.
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return func(o *options) {
		o.caseFormat = caseFormat
	}
}
