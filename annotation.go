package jsonly

import (
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// TagName is the struct tag carrying field annotations.
const TagName = "jsonly"

// Strict is a zero size marker; embedding it switches the declaring struct to
// allow list filtering, where only fields annotated property participate.
type Strict struct{}

// Annotations is a field annotation set.
type Annotations uint8

const (
	//AnnotationIgnore excludes a field under deny list mode
	AnnotationIgnore Annotations = 1 << iota
	//AnnotationProperty includes a field under allow list mode
	AnnotationProperty
	//AnnotationIgnoreNull suppresses the key when the live value is null
	AnnotationIgnoreNull
)

func (a Annotations) Ignore() bool     { return a&AnnotationIgnore != 0 }
func (a Annotations) Property() bool   { return a&AnnotationProperty != 0 }
func (a Annotations) IgnoreNull() bool { return a&AnnotationIgnoreNull != 0 }

const comaTerminatorToken = iota

var comaTerminatorMatcher = parsly.NewToken(comaTerminatorToken, "coma", matcher.NewTerminator(',', true))

// parseAnnotations parses a jsonly tag literal i.e. "ignore", "property,name=id".
func parseAnnotations(tagLiteral string) (Annotations, string) {
	var result Annotations
	name := ""
	cursor := parsly.NewCursor("", []byte(tagLiteral), 0)
	for cursor.Pos < len(cursor.Input) {
		key, value := matchAnnotation(cursor)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "ignore", "-":
			result |= AnnotationIgnore
		case "property":
			result |= AnnotationProperty
		case "ignorenull", "omitnull":
			result |= AnnotationIgnoreNull
		case "name":
			name = strings.TrimSpace(value)
		}
	}
	return result, name
}

func matchAnnotation(cursor *parsly.Cursor) (string, string) {
	element := matchFragment(cursor, comaTerminatorMatcher)
	if index := strings.Index(element, "="); index != -1 {
		return element[:index], element[index+1:]
	}
	return element, ""
}

func matchFragment(cursor *parsly.Cursor, terminator *parsly.Token) string {
	match := cursor.MatchAny(terminator)
	if match.Code == terminator.Code {
		text := match.Text(cursor)
		return text[:len(text)-1]
	}
	if cursor.Pos < len(cursor.Input) {
		text := string(cursor.Input[cursor.Pos:])
		cursor.Pos = len(cursor.Input)
		return text
	}
	return ""
}

// include applies the annotation filter; mode is allow list when the declaring
// descriptor carries the strict marker, deny list otherwise. In both modes an
// ignoreNull field with a null current value is excluded.
func (t *TypeDescriptor) include(field *FieldDescriptor, isNull bool) bool {
	if !field.staticInclude {
		return false
	}
	if field.Annotations.IgnoreNull() && isNull {
		return false
	}
	return true
}
