// Package jsonly maps JSON value trees to strongly typed objects and back,
// driven by cached per type descriptors instead of hand written mapping code.
// Field participation is controlled with jsonly struct tag annotations and the
// embedded Strict marker, conversion can be overridden per type with registered
// converters, and discriminator tagged polymorphic decode is available behind
// the type information flag.
package jsonly

import (
	"reflect"
)

// TypeOf exposes the concrete reflect type of a parametric instantiation.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
