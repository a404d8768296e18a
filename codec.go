package jsonly

import (
	"reflect"
)

// Codec pairs one type with matching encode and decode functions.
type Codec[T any] struct {
	rType reflect.Type
	opts  []Option
}

// NewCodec creates a codec bound to T; supplied options apply to every call.
func NewCodec[T any](opts ...Option) *Codec[T] {
	return &Codec[T]{rType: TypeOf[T](), opts: opts}
}

// Type returns the bound type.
func (c *Codec[T]) Type() reflect.Type {
	return c.rType
}

// Marshal converts a value into JSON text.
func (c *Codec[T]) Marshal(value T, opts ...Option) ([]byte, error) {
	return Marshal(value, c.merge(opts)...)
}

// Unmarshal parses JSON text into a value of the bound type.
func (c *Codec[T]) Unmarshal(data []byte, opts ...Option) (T, error) {
	var result T
	err := Unmarshal(data, &result, c.merge(opts)...)
	return result, err
}

// Encode converts a value into a JSON value tree.
func (c *Codec[T]) Encode(value T, opts ...Option) (interface{}, error) {
	return Encode(value, c.merge(opts)...)
}

// Decode maps a JSON value tree into a value of the bound type.
func (c *Codec[T]) Decode(node interface{}, opts ...Option) (T, error) {
	var result T
	err := Decode(node, &result, c.merge(opts)...)
	return result, err
}

func (c *Codec[T]) merge(opts []Option) []Option {
	if len(c.opts) == 0 {
		return opts
	}
	return append(append([]Option{}, c.opts...), opts...)
}
