package jsonly

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface {
	area() float64
}

type circle struct {
	Radius float64
}

func (c circle) area() float64 { return math.Pi * c.Radius * c.Radius }

type square struct {
	Side float64
}

func (s square) area() float64 { return s.Side * s.Side }

func init() {
	RegisterSubtypeAs("circle", circle{})
	RegisterSubtype(square{})
}

func TestTypeTag(t *testing.T) {
	assert.EqualValues(t, "circle", TypeTag(reflect.TypeOf(circle{})))
	assert.EqualValues(t, "circle", TypeTag(reflect.TypeOf(&circle{})))
	assert.EqualValues(t, "github.com/viant/jsonly.square", TypeTag(reflect.TypeOf(square{})))
	assert.EqualValues(t, "github.com/viant/jsonly.descriptorBase", TypeTag(reflect.TypeOf(descriptorBase{})))
}

func TestPolymorph_InterfaceField(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetTypeInfo(true)
	type drawing struct {
		Item shape
	}
	data, err := Marshal(drawing{Item: circle{Radius: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Item":{"@type":"circle","Radius":2}}`, string(data))

	var out drawing
	require.NoError(t, Unmarshal(data, &out))
	actual, ok := out.Item.(circle)
	require.True(t, ok)
	assert.EqualValues(t, 2, actual.Radius)
}

func TestPolymorph_ContainerElements(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetTypeInfo(true)
	source := []shape{circle{Radius: 1}, square{Side: 3}}
	data, err := Marshal(source)
	require.NoError(t, err)
	assert.EqualValues(t, `[{"@type":"circle","Radius":1},{"@type":"github.com/viant/jsonly.square","Side":3}]`, string(data))

	var out []shape
	require.NoError(t, Unmarshal(data, &out))
	require.Len(t, out, 2)
	assert.EqualValues(t, circle{Radius: 1}, out[0])
	assert.EqualValues(t, square{Side: 3}, out[1])
}

func TestPolymorph_UnknownTag(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetTypeInfo(true)
	var out shape
	err := Unmarshal([]byte(`{"@type":"nope"}`), &out)
	require.Error(t, err)
	var unknown *UnknownDiscriminatorError
	require.True(t, errors.As(err, &unknown))
	assert.EqualValues(t, "nope", unknown.Tag)
}

func TestPolymorph_NoTagOnExpectedType(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetTypeInfo(true)
	type drawing struct {
		Exact circle
	}
	data, err := Marshal(drawing{Exact: circle{Radius: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Exact":{"Radius":1}}`, string(data))
}

func TestPolymorph_PrimitiveInterfaceValue(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetTypeInfo(true)
	type record struct {
		Value interface{}
	}
	//only mapping shaped nodes carry a discriminator
	data, err := Marshal(record{Value: 12})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Value":12}`, string(data))
}

func TestPolymorph_CustomDiscriminator(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetTypeInfo(true)
	SetDiscriminator("$kind")
	type drawing struct {
		Item shape
	}
	data, err := Marshal(drawing{Item: circle{Radius: 5}})
	require.NoError(t, err)
	assert.EqualValues(t, `{"Item":{"$kind":"circle","Radius":5}}`, string(data))

	var out drawing
	require.NoError(t, Unmarshal(data, &out))
	assert.EqualValues(t, circle{Radius: 5}, out.Item)
}
