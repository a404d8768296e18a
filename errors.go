package jsonly

import (
	"fmt"
	"reflect"
)

// ParseError reports malformed input text rejected by the underlying parser.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// TypeMismatchError reports a node whose kind is incompatible with the target type.
type TypeMismatchError struct {
	Path string
	Type reflect.Type
	Node interface{}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at %v: cannot decode %T into %s", pathOrRoot(e.Path), e.Node, e.Type)
}

// UnsupportedTypeError reports a type with no descriptor, no converter and no container form.
type UnsupportedTypeError struct {
	Path string
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s at %v", e.Type, pathOrRoot(e.Path))
}

// NoDefaultConstructorError reports an object target that cannot be default constructed.
type NoDefaultConstructorError struct {
	Path string
	Type reflect.Type
}

func (e *NoDefaultConstructorError) Error() string {
	return fmt.Sprintf("no default constructor for %s at %v", e.Type, pathOrRoot(e.Path))
}

// UnknownDiscriminatorError reports a discriminator tag with no registered subtype.
type UnknownDiscriminatorError struct {
	Path string
	Tag  string
}

func (e *UnknownDiscriminatorError) Error() string {
	return fmt.Sprintf("unknown discriminator %q at %v", e.Tag, pathOrRoot(e.Path))
}

// CyclicReferenceError reports a reference cycle detected on the active encode path.
type CyclicReferenceError struct {
	Path string
	Type reflect.Type
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference to %s at %v", e.Type, pathOrRoot(e.Path))
}

// ConverterError wraps a failure raised by a user supplied converter or self serialization.
type ConverterError struct {
	Path  string
	Type  reflect.Type
	Cause error
}

func (e *ConverterError) Error() string {
	return fmt.Sprintf("converter failed for %s at %v: %v", e.Type, pathOrRoot(e.Path), e.Cause)
}

func (e *ConverterError) Unwrap() error { return e.Cause }

func pathOrRoot(path string) string {
	if path == "" {
		return "$"
	}
	return path
}
