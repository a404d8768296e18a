package jsonly

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

type (
	//DecodeFunc converts a JSON tree node into an object value
	DecodeFunc func(node interface{}) (interface{}, error)

	//EncodeFunc converts an object value into a JSON encodable value
	EncodeFunc func(value interface{}) (interface{}, error)
)

var (
	decoderRegistry sync.Map //map[reflect.Type]DecodeFunc
	encoderRegistry sync.Map //map[reflect.Type]EncodeFunc
)

// RegisterDecoder registers a decode converter; it owns the whole conversion for
// its type and is tried before structural traversal.
func RegisterDecoder(rType reflect.Type, fn DecodeFunc) error {
	if err := checkConvertible(rType); err != nil {
		return err
	}
	decoderRegistry.Store(rType, fn)
	return nil
}

// RegisterEncoder registers an encode converter.
func RegisterEncoder(rType reflect.Type, fn EncodeFunc) error {
	if err := checkConvertible(rType); err != nil {
		return err
	}
	encoderRegistry.Store(rType, fn)
	return nil
}

// LookupDecoder returns a registered decode converter or nil.
func LookupDecoder(rType reflect.Type) DecodeFunc {
	if fn, ok := decoderRegistry.Load(rType); ok {
		return fn.(DecodeFunc)
	}
	return nil
}

// LookupEncoder returns a registered encode converter or nil.
func LookupEncoder(rType reflect.Type) EncodeFunc {
	if fn, ok := encoderRegistry.Load(rType); ok {
		return fn.(EncodeFunc)
	}
	return nil
}

// primitive and container kinds would shadow the structural branches, creating
// recursive ambiguity, so only object kinds are registrable
func checkConvertible(rType reflect.Type) error {
	if rType == nil {
		return fmt.Errorf("converter type was nil")
	}
	if kind := KindOf(rType); kind != KindObject {
		return fmt.Errorf("cannot register converter for %s kind: %s", kind, rType)
	}
	return nil
}

func init() {
	_ = RegisterEncoder(timeType, func(value interface{}) (interface{}, error) {
		return value.(time.Time).Format(snapshot().timeLayout), nil
	})
	_ = RegisterDecoder(timeType, func(node interface{}) (interface{}, error) {
		literal, ok := node.(string)
		if !ok {
			return nil, fmt.Errorf("expected time literal, got %T", node)
		}
		return time.Parse(snapshot().timeLayout, literal)
	})
}
