package jsonly

import (
	"reflect"
	"sync"
)

var (
	subtypeByTag sync.Map //map[string]reflect.Type
	tagByType    sync.Map //map[reflect.Type]string
)

// RegisterSubtype registers a concrete type under its default tag for
// discriminator based decoding.
func RegisterSubtype(prototype interface{}) {
	rType := derefType(reflect.TypeOf(prototype))
	RegisterSubtypeAs(TypeTag(rType), prototype)
}

// RegisterSubtypeAs registers a concrete type under a custom tag.
func RegisterSubtypeAs(tag string, prototype interface{}) {
	rType := derefType(reflect.TypeOf(prototype))
	subtypeByTag.Store(tag, rType)
	tagByType.Store(rType, tag)
}

// TypeTag returns the discriminator tag for a type, the fully qualified type
// name unless registered under a custom tag.
func TypeTag(rType reflect.Type) string {
	rType = derefType(rType)
	if tag, ok := tagByType.Load(rType); ok {
		return tag.(string)
	}
	if rType.PkgPath() == "" {
		return rType.String()
	}
	return rType.PkgPath() + "." + rType.Name()
}

func resolveTag(tag string) (reflect.Type, bool) {
	if rType, ok := subtypeByTag.Load(tag); ok {
		return rType.(reflect.Type), true
	}
	return nil, false
}

func derefType(rType reflect.Type) reflect.Type {
	for rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}
