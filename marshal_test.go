package jsonly

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_DeclarationOrder(t *testing.T) {
	value := descriptorEntity{}
	value.ID = 1
	value.Name = "abc"
	data, err := Marshal(value)
	require.NoError(t, err)
	//inherited fields precede own fields, explicit name bypasses transform
	assert.EqualValues(t, `{"ID":1,"Created":"0001-01-01T00:00:00Z","label":"abc"}`, string(data))
}

func TestMarshal_IgnoreAnnotation(t *testing.T) {
	type record struct {
		A1 int `jsonly:"ignore"`
		A2 int
	}
	data, err := Marshal(record{A1: 10, A2: 5})
	require.NoError(t, err)
	assert.EqualValues(t, `{"A2":5}`, string(data))
}

func TestMarshal_StrictProperty(t *testing.T) {
	type record struct {
		Strict
		B1 int `jsonly:"property"`
		B2 int
	}
	data, err := Marshal(record{B1: 10, B2: 5})
	require.NoError(t, err)
	assert.EqualValues(t, `{"B1":10}`, string(data))
}

func TestMarshal_IgnoreNull(t *testing.T) {
	type record struct {
		Name string
		Note *string `jsonly:"ignorenull"`
	}
	data, err := Marshal(record{Name: "abc"})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Name":"abc"}`, string(data))

	note := "keep"
	data, err = Marshal(record{Name: "abc", Note: &note})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Name":"abc","Note":"keep"}`, string(data))
}

func TestMarshal_StrictIgnoreNull(t *testing.T) {
	type record struct {
		Strict
		Note *string `jsonly:"property,ignorenull"`
	}
	data, err := Marshal(record{})
	require.NoError(t, err)
	assert.EqualValues(t, `{}`, string(data))
}

func TestMarshal_MapSortedKeys(t *testing.T) {
	data, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	assert.EqualValues(t, `{"a":1,"b":2,"c":3}`, string(data))
}

func TestMarshal_Set(t *testing.T) {
	data, err := Marshal(map[string]struct{}{"x": {}, "y": {}})
	require.NoError(t, err)
	text := string(data)
	assert.True(t, text == `["x","y"]` || text == `["y","x"]`, text)
}

func TestMarshal_Null(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.EqualValues(t, "null", string(data))

	type record struct {
		Link *descriptorBase
	}
	data, err = Marshal(record{})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Link":null}`, string(data))
}

func TestMarshal_Indent(t *testing.T) {
	type record struct {
		ID int
	}
	data, err := Marshal(record{ID: 1}, WithIndent("  "))
	require.NoError(t, err)
	assert.EqualValues(t, "{\n  \"ID\": 1\n}", string(data))
}

type selfSerializing struct {
	N int
}

func (s selfSerializing) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"n":%d}`, s.N)), nil
}

type failingSerializer struct {
	Value string
}

func (s failingSerializer) MarshalJSON() ([]byte, error) {
	return nil, errors.New("not today")
}

func TestMarshal_SelfSerialization(t *testing.T) {
	data, err := Marshal(selfSerializing{N: 3})
	require.NoError(t, err)
	assert.EqualValues(t, `{"n":3}`, string(data))
}

func TestMarshal_SelfSerializationFallsBack(t *testing.T) {
	data, err := Marshal(failingSerializer{Value: "abc"})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Value":"abc"}`, string(data))
}

type chain struct {
	Name string
	Next *chain
}

func TestMarshal_CyclicReference(t *testing.T) {
	head := &chain{Name: "a"}
	head.Next = head
	_, err := Marshal(head)
	require.Error(t, err)
	var cycleErr *CyclicReferenceError
	assert.True(t, errors.As(err, &cycleErr))
	assert.True(t, strings.Contains(cycleErr.Path, "Next"), cycleErr.Path)
}

func TestMarshal_SharedReferenceIsNotACycle(t *testing.T) {
	shared := &descriptorBase{ID: 2}
	type record struct {
		Left  *descriptorBase
		Right *descriptorBase
	}
	data, err := Marshal(record{Left: shared, Right: shared})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Left":{"ID":2,"Created":"0001-01-01T00:00:00Z"},"Right":{"ID":2,"Created":"0001-01-01T00:00:00Z"}}`, string(data))
}

func TestMarshal_UnsupportedType(t *testing.T) {
	type record struct {
		Callback func()
	}
	_, err := Marshal(record{})
	require.Error(t, err)
	var unsupported *UnsupportedTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestEncode_Tree(t *testing.T) {
	node, err := Encode(descriptorEntity{descriptorBase: descriptorBase{ID: 7}, Name: "abc"})
	require.NoError(t, err)
	object, ok := node.(*Object)
	require.True(t, ok)
	assert.EqualValues(t, []string{"ID", "Created", "label"}, object.Keys())
	id, _ := object.Get("ID")
	assert.EqualValues(t, 7, id)
}
