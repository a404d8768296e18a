package jsonly

import (
	stdjson "encoding/json"
	"reflect"
	"sort"
	"strings"
	"unsafe"
)

var jsonMarshalerType = reflect.TypeOf((*stdjson.Marshaler)(nil)).Elem()

type marshalSession struct {
	cfg         *config
	nameEncoder func(string) string
	path        []string
	active      map[uintptr]struct{}
}

func newMarshalSession(options *options) *marshalSession {
	cfg := snapshot()
	nameEncoder := cfg.nameEncoder
	if options.caseFormat.IsDefined() {
		nameEncoder = CaseFormatName(options.caseFormat)
	}
	return &marshalSession{cfg: cfg, nameEncoder: nameEncoder}
}

// Encode converts an object into a JSON value tree.
func Encode(value interface{}, opts ...Option) (interface{}, error) {
	sess := newMarshalSession(newOptions(opts))
	return sess.encodeValue(nil, reflect.ValueOf(value), nil)
}

// Marshal converts an object into JSON text; WithIndent selects pretty output.
func Marshal(value interface{}, opts ...Option) ([]byte, error) {
	options := newOptions(opts)
	sess := newMarshalSession(options)
	node, err := sess.encodeValue(nil, reflect.ValueOf(value), nil)
	if err != nil {
		return nil, err
	}
	return Print(node, options.indent)
}

// encodeValue recursively encodes; expected carries the statically declared
// type at this position, skipConverter suppresses converter re dispatch on a
// converter's own output type.
func (s *marshalSession) encodeValue(expected reflect.Type, rv reflect.Value, skipConverter reflect.Type) (interface{}, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		return s.encodeValue(expected, rv.Elem(), skipConverter)
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		release, err := s.enter(rv.Pointer(), rv.Type())
		if err != nil {
			return nil, err
		}
		defer release()
		return s.encodeValue(expected, rv.Elem(), skipConverter)
	}
	rType := rv.Type()
	if rType != skipConverter {
		if fn := LookupEncoder(rType); fn != nil {
			converted, err := fn(rv.Interface())
			if err != nil {
				return nil, &ConverterError{Path: s.pathString(), Type: rType, Cause: err}
			}
			node, err := s.encodeValue(nil, reflect.ValueOf(converted), rType)
			if err != nil {
				return nil, err
			}
			return s.withTypeInfo(expected, rType, node), nil
		}
	}
	if node, ok := s.selfSerialize(rv); ok {
		return s.withTypeInfo(expected, rType, node), nil
	}
	switch KindOf(rType) {
	case KindPrimitive:
		return rv.Interface(), nil
	case KindList:
		return s.encodeList(rType, rv)
	case KindSet:
		return s.encodeSet(rType, rv)
	case KindMap:
		return s.encodeMap(rType, rv)
	case KindObject:
		return s.encodeStruct(expected, rv)
	}
	return nil, &UnsupportedTypeError{Path: s.pathString(), Type: rType}
}

// selfSerialize queries the self serialization capability explicitly; a failing
// invocation falls through to structural traversal rather than propagating.
func (s *marshalSession) selfSerialize(rv reflect.Value) (interface{}, bool) {
	marshaler, ok := marshalerOf(rv)
	if !ok {
		return nil, false
	}
	data, err := marshaler.MarshalJSON()
	if err != nil {
		return nil, false
	}
	node, err := Parse(data)
	if err != nil {
		return nil, false
	}
	return node, true
}

func marshalerOf(rv reflect.Value) (stdjson.Marshaler, bool) {
	rType := rv.Type()
	if rType.Implements(jsonMarshalerType) {
		return rv.Interface().(stdjson.Marshaler), true
	}
	if rv.CanAddr() && reflect.PointerTo(rType).Implements(jsonMarshalerType) {
		return rv.Addr().Interface().(stdjson.Marshaler), true
	}
	return nil, false
}

func (s *marshalSession) encodeList(rType reflect.Type, rv reflect.Value) (interface{}, error) {
	if rv.Kind() == reflect.Slice {
		if rv.IsNil() {
			return nil, nil
		}
		release, err := s.enter(rv.Pointer(), rType)
		if err != nil {
			return nil, err
		}
		defer release()
	}
	elemType := rType.Elem()
	result := make([]interface{}, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		node, err := s.encodeValue(elemType, rv.Index(i), nil)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, nil
}

func (s *marshalSession) encodeSet(rType reflect.Type, rv reflect.Value) (interface{}, error) {
	if rv.IsNil() {
		return nil, nil
	}
	keyType := rType.Key()
	result := make([]interface{}, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		node, err := s.encodeValue(keyType, iter.Key(), nil)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, nil
}

func (s *marshalSession) encodeMap(rType reflect.Type, rv reflect.Value) (interface{}, error) {
	if rv.IsNil() {
		return nil, nil
	}
	if rType.Key().Kind() != reflect.String {
		return nil, &UnsupportedTypeError{Path: s.pathString(), Type: rType}
	}
	release, err := s.enter(rv.Pointer(), rType)
	if err != nil {
		return nil, err
	}
	defer release()
	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	elemType := rType.Elem()
	result := NewObject()
	for _, key := range keys {
		s.push(key)
		node, err := s.encodeValue(elemType, rv.MapIndex(reflect.ValueOf(key).Convert(rType.Key())), nil)
		s.pop()
		if err != nil {
			return nil, err
		}
		result.Put(key, node)
	}
	return result, nil
}

func (s *marshalSession) encodeStruct(expected reflect.Type, rv reflect.Value) (interface{}, error) {
	rType := rv.Type()
	descriptor := DescriptorOf(rType)
	structPtr := structPointer(rv, rType)
	result := NewObject()
	for _, field := range descriptor.Fields {
		if !field.staticInclude {
			continue
		}
		fieldValue, ok := field.valueAt(structPtr)
		isNull := !ok
		if descriptor.hasIgnoreNull && ok {
			isNull = isNullValue(fieldValue)
		}
		if !descriptor.include(field, isNull) {
			continue
		}
		var node interface{}
		if ok {
			s.push(field.Name)
			encoded, err := s.encodeValue(field.Type, fieldValue, nil)
			s.pop()
			if err != nil {
				return nil, err
			}
			node = encoded
		}
		result.Put(field.key(s.nameEncoder), node)
	}
	return s.withTypeInfo(expected, rType, result), nil
}

// withTypeInfo injects a discriminator when type information is on and the
// runtime type differs from the statically expected one; only mapping shaped
// nodes receive the key.
func (s *marshalSession) withTypeInfo(expected reflect.Type, rType reflect.Type, node interface{}) interface{} {
	if !s.cfg.typeInfo || expected == nil {
		return node
	}
	if derefType(expected) == rType {
		return node
	}
	switch actual := node.(type) {
	case *Object:
		actual.putFront(s.cfg.discriminator, TypeTag(rType))
	case map[string]interface{}:
		actual[s.cfg.discriminator] = TypeTag(rType)
	}
	return node
}

func (s *marshalSession) enter(ptr uintptr, rType reflect.Type) (func(), error) {
	if s.active == nil {
		s.active = map[uintptr]struct{}{}
	}
	if _, ok := s.active[ptr]; ok {
		return nil, &CyclicReferenceError{Path: s.pathString(), Type: rType}
	}
	s.active[ptr] = struct{}{}
	return func() { delete(s.active, ptr) }, nil
}

func (s *marshalSession) push(segment string) {
	s.path = append(s.path, segment)
}

func (s *marshalSession) pop() {
	s.path = s.path[:len(s.path)-1]
}

func (s *marshalSession) pathString() string {
	return strings.Join(s.path, ".")
}

func structPointer(rv reflect.Value, rType reflect.Type) unsafe.Pointer {
	if rv.CanAddr() {
		return unsafe.Pointer(rv.Addr().Pointer())
	}
	tmp := reflect.New(rType)
	tmp.Elem().Set(rv)
	return unsafe.Pointer(tmp.Pointer())
}

func isNullValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
