package jsonly

import (
	"reflect"
	"time"
)

// Kind categorizes a type or value for the encode/decode traversal.
type Kind int

const (
	KindNull Kind = iota
	KindPrimitive
	KindList
	KindSet
	KindMap
	KindObject
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindPrimitive:
		return "primitive"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	}
	return "unsupported"
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	emptyStructType = reflect.TypeOf(struct{}{})
)

// KindOf classifies a declared type; pointers are dereferenced, runtime contents are ignored.
func KindOf(rType reflect.Type) Kind {
	if rType == nil {
		return KindNull
	}
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	switch rType.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindPrimitive
	case reflect.Slice, reflect.Array:
		return KindList
	case reflect.Map:
		if rType.Elem() == emptyStructType {
			return KindSet
		}
		return KindMap
	case reflect.Struct, reflect.Interface:
		return KindObject
	}
	return KindUnsupported
}
