package jsonly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_Put(t *testing.T) {
	object := NewObject()
	object.Put("a", 1)
	object.Put("b", 2)
	object.Put("a", 3)
	assert.EqualValues(t, 2, object.Len())
	assert.EqualValues(t, []string{"a", "b"}, object.Keys())
	value, ok := object.Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 3, value)
	assert.True(t, object.Has("b"))
	assert.False(t, object.Has("c"))
}

func TestObject_PutFront(t *testing.T) {
	object := NewObject()
	object.Put("a", 1)
	object.Put("b", 2)
	object.putFront("@type", "tag")
	assert.EqualValues(t, []string{"@type", "a", "b"}, object.Keys())
	value, ok := object.Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 1, value)

	//existing key keeps its position
	object.putFront("b", 9)
	assert.EqualValues(t, []string{"@type", "a", "b"}, object.Keys())
}

func TestObject_MarshalJSON(t *testing.T) {
	object := NewObject()
	object.Put("z", 1)
	object.Put("a", []interface{}{true, nil})
	nested := NewObject()
	nested.Put("k", "v")
	object.Put("m", nested)
	data, err := object.MarshalJSON()
	require.NoError(t, err)
	assert.EqualValues(t, `{"z":1,"a":[true,null],"m":{"k":"v"}}`, string(data))
}

func TestObject_Pairs(t *testing.T) {
	object := NewObject()
	object.Put("a", 1)
	object.Put("b", 2)
	object.Put("c", 3)
	var seen []string
	object.Pairs(func(key string, value interface{}) bool {
		seen = append(seen, key)
		return key != "b"
	})
	assert.EqualValues(t, []string{"a", "b"}, seen)
}

func TestAsMapping(t *testing.T) {
	pairs, ok := asMapping(map[string]interface{}{"k": 1})
	require.True(t, ok)
	count := 0
	pairs(func(key string, value interface{}) bool {
		count++
		return true
	})
	assert.EqualValues(t, 1, count)

	_, ok = asMapping([]interface{}{1})
	assert.False(t, ok)

	value, ok := mappingValue(map[string]interface{}{"k": 1}, "k")
	require.True(t, ok)
	assert.EqualValues(t, 1, value)
}
