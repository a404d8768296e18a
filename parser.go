package jsonly

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"io"

	gjson "github.com/goccy/go-json"
)

// Parse converts JSON text into a value tree of nil, bool, json.Number, string,
// []interface{} and Object nodes; mapping keys keep document order.
func Parse(data []byte) (interface{}, error) {
	decoder := gjson.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	node, err := parseNode(decoder)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	if decoder.More() {
		return nil, &ParseError{Cause: fmt.Errorf("trailing content after top level value")}
	}
	return node, nil
}

func parseNode(decoder *gjson.Decoder) (interface{}, error) {
	token, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of input")
		}
		return nil, err
	}
	return parseFrom(decoder, token)
}

func parseFrom(decoder *gjson.Decoder, token gjson.Token) (interface{}, error) {
	delim, ok := token.(gjson.Delim)
	if !ok {
		//number tokens are normalized so the decoder matches one number type
		if number, isNumber := token.(gjson.Number); isNumber {
			return stdjson.Number(number), nil
		}
		return token, nil
	}
	switch delim {
	case '{':
		result := NewObject()
		for {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			if closing, ok := keyToken.(gjson.Delim); ok && closing == '}' {
				return result, nil
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %T", keyToken)
			}
			value, err := parseNode(decoder)
			if err != nil {
				return nil, err
			}
			result.Put(key, value)
		}
	case '[':
		result := make([]interface{}, 0)
		for {
			itemToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			if closing, ok := itemToken.(gjson.Delim); ok && closing == ']' {
				return result, nil
			}
			item, err := parseFrom(decoder, itemToken)
			if err != nil {
				return nil, err
			}
			result = append(result, item)
		}
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// Print serializes a value tree; a non empty indent requests pretty output.
func Print(node interface{}, indent string) ([]byte, error) {
	if indent == "" {
		return gjson.Marshal(node)
	}
	return gjson.MarshalIndent(node, "", indent)
}

// Reviver is invoked once per parsed node before structural mapping; key is a
// list index, a mapping key, or nil for the root.
type Reviver func(key interface{}, value interface{}) interface{}

// revive walks the tree bottom up, child nodes first.
func revive(node interface{}, reviver Reviver) interface{} {
	switch actual := node.(type) {
	case []interface{}:
		for i, item := range actual {
			actual[i] = reviver(i, revive(item, reviver))
		}
	case map[string]interface{}:
		for key, item := range actual {
			actual[key] = reviver(key, revive(item, reviver))
		}
	case *Object:
		for i, key := range actual.keys {
			actual.values[i] = reviver(key, revive(actual.values[i], reviver))
		}
	}
	return node
}
