package jsonly

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/viant/xunsafe"
)

type (
	//TypeDescriptor represents cached per type metadata
	TypeDescriptor struct {
		Type      reflect.Type
		Kind      Kind
		Strict    bool
		CanCreate bool
		Fields    []*FieldDescriptor

		byName        map[string]*FieldDescriptor
		hasIgnoreNull bool
	}

	//FieldDescriptor represents per field metadata
	FieldDescriptor struct {
		Name        string
		Key         string //explicit name override, empty unless tagged name=...
		Type        reflect.Type
		Readable    bool
		Writable    bool
		Annotations Annotations

		xField *xunsafe.Field
		owners []*xunsafe.Field //embedded holder chain, outermost first

		staticInclude bool
	}
)

var strictMarkerType = reflect.TypeOf(Strict{})

var descriptorCache sync.Map //map[reflect.Type]*TypeDescriptor

// DescriptorOf resolves a type descriptor, building it lazily on first use.
// Racing first resolutions converge to an equal descriptor, last write wins.
func DescriptorOf(rType reflect.Type) *TypeDescriptor {
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if cached, ok := descriptorCache.Load(rType); ok {
		return cached.(*TypeDescriptor)
	}
	descriptor := newDescriptor(rType)
	descriptorCache.Store(rType, descriptor)
	return descriptor
}

func newDescriptor(rType reflect.Type) *TypeDescriptor {
	result := &TypeDescriptor{
		Type:   rType,
		Kind:   KindOf(rType),
		byName: map[string]*FieldDescriptor{},
	}
	result.CanCreate = rType.Kind() != reflect.Interface && result.Kind != KindUnsupported
	if rType.Kind() != reflect.Struct {
		return result
	}
	xStruct := xunsafe.NewStruct(rType)
	//embedded holder fields first, producing superclass precedes subclass order
	for i := range xStruct.Fields {
		field := &xStruct.Fields[i]
		if !field.Anonymous {
			continue
		}
		if field.Type == strictMarkerType {
			result.Strict = true
			continue
		}
		holderType := field.Type
		for holderType.Kind() == reflect.Ptr {
			holderType = holderType.Elem()
		}
		if holderType.Kind() != reflect.Struct || holderType == timeType {
			continue
		}
		embedded := DescriptorOf(holderType)
		for _, inherited := range embedded.Fields {
			owners := append([]*xunsafe.Field{field}, inherited.owners...)
			result.append(&FieldDescriptor{
				Name:        inherited.Name,
				Key:         inherited.Key,
				Type:        inherited.Type,
				Readable:    inherited.Readable,
				Writable:    inherited.Writable,
				Annotations: inherited.Annotations,
				xField:      inherited.xField,
				owners:      owners,
			})
		}
	}
	for i := range xStruct.Fields {
		field := &xStruct.Fields[i]
		if field.Anonymous {
			continue
		}
		if !isExported(field.Name) { //no getter nor setter equivalent
			continue
		}
		annotations, name := parseAnnotations(field.Tag.Get(TagName))
		result.append(&FieldDescriptor{
			Name:        field.Name,
			Key:         name,
			Type:        field.Type,
			Readable:    true,
			Writable:    true,
			Annotations: annotations,
			xField:      field,
		})
	}
	for _, field := range result.Fields {
		field.staticInclude = result.staticInclude(field)
		if field.Annotations.IgnoreNull() {
			result.hasIgnoreNull = true
		}
	}
	return result
}

func (t *TypeDescriptor) append(field *FieldDescriptor) {
	t.Fields = append(t.Fields, field)
	t.byName[field.Name] = field
	if field.Key != "" {
		t.byName[field.Key] = field
	}
}

// staticInclude evaluates the descriptor only part of the annotation filter; the
// per instance null check is layered on top by include.
func (t *TypeDescriptor) staticInclude(field *FieldDescriptor) bool {
	if !field.Readable || !field.Writable {
		return false
	}
	if t.Strict {
		return field.Annotations.Property()
	}
	return !field.Annotations.Ignore()
}

// Field returns a field descriptor matched by field name or explicit key.
func (t *TypeDescriptor) Field(name string) *FieldDescriptor {
	return t.byName[name]
}

// key returns the JSON key for a field; explicit names bypass the transformer.
func (f *FieldDescriptor) key(transform func(string) string) string {
	if f.Key != "" {
		return f.Key
	}
	return transform(f.Name)
}

// pointer walks the embedded holder chain; ok is false on a nil holder.
func (f *FieldDescriptor) pointer(structPtr unsafe.Pointer) (unsafe.Pointer, bool) {
	ptr := structPtr
	for _, owner := range f.owners {
		if owner.Kind() == reflect.Ptr {
			if owner.IsNil(ptr) {
				return nil, false
			}
			ptr = owner.ValuePointer(ptr)
			continue
		}
		ptr = owner.Pointer(ptr)
	}
	return f.xField.Pointer(ptr), true
}

// ensurePointer walks the holder chain allocating nil embedded pointers.
func (f *FieldDescriptor) ensurePointer(structPtr unsafe.Pointer) unsafe.Pointer {
	ptr := structPtr
	for _, owner := range f.owners {
		if owner.Kind() == reflect.Ptr {
			holder := reflect.NewAt(owner.Type, owner.Pointer(ptr)).Elem()
			if holder.IsNil() {
				holder.Set(reflect.New(owner.Type.Elem()))
			}
			ptr = owner.ValuePointer(ptr)
			continue
		}
		ptr = owner.Pointer(ptr)
	}
	return f.xField.Pointer(ptr)
}

// valueAt reads the field value; ok is false on a nil embedded holder.
func (f *FieldDescriptor) valueAt(structPtr unsafe.Pointer) (reflect.Value, bool) {
	fieldPtr, ok := f.pointer(structPtr)
	if !ok {
		return reflect.Value{}, false
	}
	return reflect.NewAt(f.Type, fieldPtr).Elem(), true
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}
