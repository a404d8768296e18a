package jsonly

import (
	"sync/atomic"
	"time"

	"github.com/viant/tagly/format/text"
)

// DefaultDiscriminator is the mapping key carrying the concrete type tag.
const DefaultDiscriminator = "@type"

type config struct {
	nameEncoder   func(string) string
	nameDecoder   func(string) string
	typeInfo      bool
	discriminator string
	timeLayout    string
}

func identityName(name string) string { return name }

var defaultConfig = &config{
	nameEncoder:   identityName,
	nameDecoder:   identityName,
	discriminator: DefaultDiscriminator,
	timeLayout:    time.RFC3339,
}

var currentConfig atomic.Pointer[config]

func init() {
	currentConfig.Store(defaultConfig)
}

func snapshot() *config {
	return currentConfig.Load()
}

func swap(mutate func(next *config)) {
	for {
		prev := currentConfig.Load()
		next := *prev
		mutate(&next)
		if currentConfig.CompareAndSwap(prev, &next) {
			return
		}
	}
}

// SetNameEncoder sets the field name to JSON key transformer, identity when nil.
func SetNameEncoder(fn func(string) string) {
	if fn == nil {
		fn = identityName
	}
	swap(func(next *config) { next.nameEncoder = fn })
}

// SetNameDecoder sets the JSON key to field name transformer, identity when nil.
// The two transformers are independent; round trip fidelity under a non identity
// pair is the caller's responsibility.
func SetNameDecoder(fn func(string) string) {
	if fn == nil {
		fn = identityName
	}
	swap(func(next *config) { next.nameDecoder = fn })
}

// SetTypeInfo toggles discriminator tagging of polymorphic values.
func SetTypeInfo(enabled bool) {
	swap(func(next *config) { next.typeInfo = enabled })
}

// SetDiscriminator overrides the discriminator key.
func SetDiscriminator(key string) {
	if key == "" {
		key = DefaultDiscriminator
	}
	swap(func(next *config) { next.discriminator = key })
}

// SetTimeLayout overrides the layout used by the built in time converter.
func SetTimeLayout(layout string) {
	if layout == "" {
		layout = time.RFC3339
	}
	swap(func(next *config) { next.timeLayout = layout })
}

// ResetConfig restores defaults, intended for tests.
func ResetConfig() {
	currentConfig.Store(defaultConfig)
}

// CaseFormatName builds a name transformer producing the supplied case format,
// detecting the source format per name.
func CaseFormatName(caseFormat text.CaseFormat) func(string) string {
	return func(name string) string {
		if name == "" || !caseFormat.IsDefined() {
			return name
		}
		source := text.DetectCaseFormat(name)
		if !source.IsDefined() {
			source = text.CaseFormatUpperCamel
		}
		return source.Format(name, caseFormat)
	}
}
