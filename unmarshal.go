package jsonly

import (
	stdjson "encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

type unmarshalSession struct {
	cfg         *config
	nameDecoder func(string) string
	path        []string
}

func newUnmarshalSession(options *options) *unmarshalSession {
	cfg := snapshot()
	nameDecoder := cfg.nameDecoder
	if options.caseFormat.IsDefined() {
		//keys arrive in the supplied case format, field names are Go exported
		nameDecoder = CaseFormatName(text.CaseFormatUpperCamel)
	}
	return &unmarshalSession{cfg: cfg, nameDecoder: nameDecoder}
}

// Decode maps a JSON value tree into dest, which must be a non nil pointer.
func Decode(node interface{}, dest interface{}, opts ...Option) error {
	rv := reflect.ValueOf(dest)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("destination must be a non nil pointer, got %T", dest)
	}
	sess := newUnmarshalSession(newOptions(opts))
	decoded, err := sess.decodeValue(node, rv.Type().Elem())
	if err != nil {
		return err
	}
	rv.Elem().Set(decoded)
	return nil
}

// Unmarshal parses JSON text then maps it into dest; WithReviver applies a per
// node reviver before structural mapping.
func Unmarshal(data []byte, dest interface{}, opts ...Option) error {
	options := newOptions(opts)
	node, err := Parse(data)
	if err != nil {
		return err
	}
	if options.reviver != nil {
		node = options.reviver(nil, revive(node, options.reviver))
	}
	return Decode(node, dest, opts...)
}

func (s *unmarshalSession) decodeValue(node interface{}, target reflect.Type) (reflect.Value, error) {
	return s.decode(node, target, false)
}

func (s *unmarshalSession) decode(node interface{}, target reflect.Type, resolved bool) (reflect.Value, error) {
	if target.Kind() == reflect.Ptr {
		if node == nil {
			return reflect.Zero(target), nil
		}
		elem, err := s.decode(node, target.Elem(), resolved)
		if err != nil {
			return reflect.Value{}, err
		}
		result := reflect.New(target.Elem())
		result.Elem().Set(elem)
		return result, nil
	}
	if !resolved && s.cfg.typeInfo {
		if tag, ok := discriminatorOf(node, s.cfg.discriminator); ok {
			concrete, known := resolveTag(tag)
			if !known {
				return reflect.Value{}, &UnknownDiscriminatorError{Path: s.pathString(), Tag: tag}
			}
			decoded, err := s.decode(node, concrete, true)
			if err != nil {
				return reflect.Value{}, err
			}
			return s.adaptTo(decoded, target)
		}
	}
	if fn := LookupDecoder(target); fn != nil {
		converted, err := fn(node)
		if err != nil {
			return reflect.Value{}, &ConverterError{Path: s.pathString(), Type: target, Cause: err}
		}
		return s.adaptTo(reflect.ValueOf(converted), target)
	}
	if node == nil {
		return reflect.Zero(target), nil
	}
	switch KindOf(target) {
	case KindPrimitive:
		return s.decodePrimitive(node, target)
	case KindList:
		return s.decodeList(node, target)
	case KindSet:
		return s.decodeSet(node, target)
	case KindMap:
		return s.decodeMap(node, target)
	case KindObject:
		return s.decodeObject(node, target)
	}
	return reflect.Value{}, &UnsupportedTypeError{Path: s.pathString(), Type: target}
}

func (s *unmarshalSession) decodeList(node interface{}, target reflect.Type) (reflect.Value, error) {
	items, ok := node.([]interface{})
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Path: s.pathString(), Type: target, Node: node}
	}
	elemType := target.Elem()
	if target.Kind() == reflect.Array {
		result := reflect.New(target).Elem()
		for i, item := range items {
			if i >= target.Len() {
				break
			}
			s.push(strconv.Itoa(i))
			decoded, err := s.decodeValue(item, elemType)
			s.pop()
			if err != nil {
				return reflect.Value{}, err
			}
			result.Index(i).Set(decoded)
		}
		return result, nil
	}
	result := reflect.MakeSlice(target, 0, len(items))
	for i, item := range items {
		s.push(strconv.Itoa(i))
		decoded, err := s.decodeValue(item, elemType)
		s.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		result = reflect.Append(result, decoded)
	}
	return result, nil
}

func (s *unmarshalSession) decodeSet(node interface{}, target reflect.Type) (reflect.Value, error) {
	items, ok := node.([]interface{})
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Path: s.pathString(), Type: target, Node: node}
	}
	result := reflect.MakeMapWithSize(target, len(items))
	member := reflect.ValueOf(struct{}{})
	for i, item := range items {
		s.push(strconv.Itoa(i))
		key, err := s.decodeValue(item, target.Key())
		s.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		result.SetMapIndex(key, member)
	}
	return result, nil
}

func (s *unmarshalSession) decodeMap(node interface{}, target reflect.Type) (reflect.Value, error) {
	pairs, ok := asMapping(node)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Path: s.pathString(), Type: target, Node: node}
	}
	if target.Key().Kind() != reflect.String {
		return reflect.Value{}, &UnsupportedTypeError{Path: s.pathString(), Type: target}
	}
	result := reflect.MakeMap(target)
	elemType := target.Elem()
	var err error
	pairs(func(key string, value interface{}) bool {
		s.push(key)
		var decoded reflect.Value
		if decoded, err = s.decodeValue(value, elemType); err != nil {
			s.pop()
			return false
		}
		s.pop()
		result.SetMapIndex(reflect.ValueOf(key).Convert(target.Key()), decoded)
		return true
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return result, nil
}

func (s *unmarshalSession) decodeObject(node interface{}, target reflect.Type) (reflect.Value, error) {
	if target.Kind() == reflect.Interface {
		if target.NumMethod() == 0 {
			return reflect.ValueOf(&node).Elem(), nil
		}
		return reflect.Value{}, &NoDefaultConstructorError{Path: s.pathString(), Type: target}
	}
	pairs, ok := asMapping(node)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Path: s.pathString(), Type: target, Node: node}
	}
	descriptor := DescriptorOf(target)
	if !descriptor.CanCreate {
		return reflect.Value{}, &NoDefaultConstructorError{Path: s.pathString(), Type: target}
	}
	instance := reflect.New(target)
	structPtr := xunsafe.AsPointer(instance.Interface())
	var err error
	pairs(func(key string, value interface{}) bool {
		if s.cfg.typeInfo && key == s.cfg.discriminator {
			return true
		}
		field := descriptor.Field(key)
		if field == nil {
			field = descriptor.Field(s.nameDecoder(key))
		}
		if field == nil || !field.staticInclude { //unrecognized keys are dropped
			return true
		}
		s.push(field.Name)
		var decoded reflect.Value
		if decoded, err = s.decodeValue(value, field.Type); err != nil {
			s.pop()
			return false
		}
		s.pop()
		fieldPtr := field.ensurePointer(structPtr)
		reflect.NewAt(field.Type, fieldPtr).Elem().Set(decoded)
		return true
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return instance.Elem(), nil
}

func (s *unmarshalSession) decodePrimitive(node interface{}, target reflect.Type) (reflect.Value, error) {
	result := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Bool:
		value, ok := node.(bool)
		if !ok {
			return reflect.Value{}, s.mismatch(node, target)
		}
		result.SetBool(value)
	case reflect.String:
		value, ok := node.(string)
		if !ok {
			return reflect.Value{}, s.mismatch(node, target)
		}
		result.SetString(value)
	case reflect.Float32, reflect.Float64:
		value, _, ok := numberOf(node)
		if !ok {
			return reflect.Value{}, s.mismatch(node, target)
		}
		result.SetFloat(value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value, ok := uintOf(node)
		if !ok {
			return reflect.Value{}, s.mismatch(node, target)
		}
		if result.OverflowUint(value) {
			return reflect.Value{}, s.mismatch(node, target)
		}
		result.SetUint(value)
	default:
		value, ok := intOf(node)
		if !ok {
			return reflect.Value{}, s.mismatch(node, target)
		}
		if result.OverflowInt(value) {
			return reflect.Value{}, s.mismatch(node, target)
		}
		result.SetInt(value)
	}
	return result, nil
}

// intOf extracts a signed integral node without a float round trip, so integers
// beyond 2^53 keep their exact value; an out of range literal is a mismatch
// rather than a truncation.
func intOf(node interface{}) (int64, bool) {
	switch actual := node.(type) {
	case stdjson.Number:
		parsed, err := strconv.ParseInt(string(actual), 10, 64)
		if err == nil {
			return parsed, true
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		//not integer syntax, i.e "3.0" or "1e3", the float path decides
	case int:
		return int64(actual), true
	case int64:
		return actual, true
	case uint64:
		if actual > math.MaxInt64 {
			return 0, false
		}
		return int64(actual), true
	}
	value, whole, ok := numberOf(node)
	if !ok || !whole {
		return 0, false
	}
	return int64(value), true
}

// uintOf is the unsigned counterpart of intOf.
func uintOf(node interface{}) (uint64, bool) {
	switch actual := node.(type) {
	case stdjson.Number:
		parsed, err := strconv.ParseUint(string(actual), 10, 64)
		if err == nil {
			return parsed, true
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
	case uint:
		return uint64(actual), true
	case uint64:
		return actual, true
	case int:
		if actual < 0 {
			return 0, false
		}
		return uint64(actual), true
	case int64:
		if actual < 0 {
			return 0, false
		}
		return uint64(actual), true
	}
	value, whole, ok := numberOf(node)
	if !ok || !whole || value < 0 {
		return 0, false
	}
	return uint64(value), true
}

// numberOf extracts a numeric node; whole reports an integral value.
func numberOf(node interface{}) (value float64, whole bool, ok bool) {
	switch actual := node.(type) {
	case stdjson.Number:
		if parsed, err := actual.Int64(); err == nil {
			return float64(parsed), true, true
		}
		parsed, err := actual.Float64()
		if err != nil {
			return 0, false, false
		}
		return parsed, parsed == math.Trunc(parsed), true
	case float64:
		return actual, actual == math.Trunc(actual), true
	case float32:
		value := float64(actual)
		return value, value == math.Trunc(value), true
	case int:
		return float64(actual), true, true
	case int8:
		return float64(actual), true, true
	case int16:
		return float64(actual), true, true
	case int32:
		return float64(actual), true, true
	case int64:
		return float64(actual), true, true
	case uint:
		return float64(actual), true, true
	case uint8:
		return float64(actual), true, true
	case uint16:
		return float64(actual), true, true
	case uint32:
		return float64(actual), true, true
	case uint64:
		return float64(actual), true, true
	}
	return 0, false, false
}

// adaptTo aligns a resolved or converted value with the requested target type.
func (s *unmarshalSession) adaptTo(value reflect.Value, target reflect.Type) (reflect.Value, error) {
	if !value.IsValid() {
		return reflect.Zero(target), nil
	}
	if value.Type() == target {
		return value, nil
	}
	if value.Type().AssignableTo(target) {
		result := reflect.New(target).Elem()
		result.Set(value)
		return result, nil
	}
	if value.CanAddr() && value.Addr().Type().AssignableTo(target) {
		result := reflect.New(target).Elem()
		result.Set(value.Addr())
		return result, nil
	}
	if value.Kind() != reflect.Ptr {
		ptr := reflect.New(value.Type())
		ptr.Elem().Set(value)
		if ptr.Type().AssignableTo(target) {
			result := reflect.New(target).Elem()
			result.Set(ptr)
			return result, nil
		}
	}
	if value.Type().ConvertibleTo(target) {
		return value.Convert(target), nil
	}
	return reflect.Value{}, &TypeMismatchError{Path: s.pathString(), Type: target, Node: value.Interface()}
}

func discriminatorOf(node interface{}, key string) (string, bool) {
	value, ok := mappingValue(node, key)
	if !ok {
		return "", false
	}
	tag, ok := value.(string)
	return tag, ok
}

func (s *unmarshalSession) mismatch(node interface{}, target reflect.Type) error {
	return &TypeMismatchError{Path: s.pathString(), Type: target, Node: node}
}

func (s *unmarshalSession) push(segment string) {
	s.path = append(s.path, segment)
}

func (s *unmarshalSession) pop() {
	s.path = s.path[:len(s.path)-1]
}

func (s *unmarshalSession) pathString() string {
	return strings.Join(s.path, ".")
}
