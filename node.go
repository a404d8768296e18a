package jsonly

import (
	"bytes"

	gjson "github.com/goccy/go-json"
)

// Object is an insertion ordered string keyed mapping node of the value tree.
// The encoder produces Object nodes so printed output follows descriptor order.
type Object struct {
	keys   []string
	index  map[string]int
	values []interface{}
}

// NewObject creates an empty object node.
func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

// Put sets a key value pair, keeping first insertion position on override.
func (o *Object) Put(key string, value interface{}) {
	if pos, ok := o.index[key]; ok {
		o.values[pos] = value
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

// Get returns a value for the supplied key.
func (o *Object) Get(key string) (interface{}, bool) {
	pos, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.values[pos], true
}

// Has returns true if key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Len returns pair count.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Pairs iterates pairs in insertion order until cb returns false.
func (o *Object) Pairs(cb func(key string, value interface{}) bool) {
	for i, key := range o.keys {
		if !cb(key, o.values[i]) {
			return
		}
	}
}

// putFront inserts a pair ahead of all existing pairs.
func (o *Object) putFront(key string, value interface{}) {
	if o.Has(key) {
		o.Put(key, value)
		return
	}
	o.keys = append([]string{key}, o.keys...)
	o.values = append([]interface{}{value}, o.values...)
	for i, k := range o.keys {
		o.index[k] = i
	}
}

// MarshalJSON writes pairs in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}
		keyData, err := gjson.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(keyData)
		buffer.WriteByte(':')
		valueData, err := gjson.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buffer.Write(valueData)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// asMapping adapts a tree node to ordered pair iteration; parsed and encoded
// trees carry Object nodes, hand built trees carry plain maps.
func asMapping(node interface{}) (func(cb func(key string, value interface{}) bool), bool) {
	switch actual := node.(type) {
	case *Object:
		return actual.Pairs, true
	case map[string]interface{}:
		return func(cb func(key string, value interface{}) bool) {
			for key, value := range actual {
				if !cb(key, value) {
					return
				}
			}
		}, true
	}
	return nil, false
}

func mappingValue(node interface{}, key string) (interface{}, bool) {
	switch actual := node.(type) {
	case *Object:
		return actual.Get(key)
	case map[string]interface{}:
		value, ok := actual[key]
		return value, ok
	}
	return nil, false
}
