package typescript

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okra-platform/faux/internal/contract"
)

// tsType maps a type reference to TypeScript. Named types declared outside
// the IDL have no TypeScript declaration and are typed as any.
func tsType(t contract.TypeRef) string {
	switch t.Kind {
	case contract.KindVoid:
		return "void"
	case contract.KindBasic:
		return basicType(t.Name)
	case contract.KindInterface:
		return "any"
	case contract.KindPointer:
		return tsType(*t.Elem) + " | null"
	case contract.KindSlice, contract.KindArray:
		if t.Elem.Kind == contract.KindBasic && (t.Elem.Name == "byte" || t.Elem.Name == "uint8") {
			return "Uint8Array"
		}
		elem := tsType(*t.Elem)
		if strings.Contains(elem, " | ") {
			elem = "(" + elem + ")"
		}
		return elem + "[]"
	case contract.KindMap:
		key := "string"
		if basicType(t.Key.Name) == "number" && t.Key.Kind == contract.KindBasic {
			key = "number"
		}
		return "Record<" + key + ", " + tsType(*t.Elem) + ">"
	case contract.KindNamed:
		switch {
		case t.Package == "time" && t.Name == "Time":
			return "string"
		case t.Package == "time" && t.Name == "Duration":
			return "number"
		case t.Package == "":
			return t.Name
		}
	}
	return "any"
}

func basicType(name string) string {
	switch name {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune", "float32", "float64":
		return "number"
	default:
		return "any"
	}
}

// headerKind picks the conversion applied to a header string
func headerKind(t contract.TypeRef) string {
	switch tsType(t.Deref()) {
	case "number":
		return "number"
	case "boolean":
		return "boolean"
	default:
		return "string"
	}
}

// localTypes collects the IDL-declared type names referenced by t
func localTypes(t contract.TypeRef, into map[string]bool) {
	t.Walk(func(r contract.TypeRef) {
		if r.Kind == contract.KindNamed && r.Package == "" {
			into[r.Name] = true
		}
	})
}

// camelCase lower-cases the first letter of name
func camelCase(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "as": true, "implements": true, "interface": true, "let": true,
	"package": true, "private": true, "protected": true, "public": true,
	"static": true, "yield": true, "await": true,
}

// scope hands out identifiers that avoid reserved words and names already
// taken.
type scope map[string]bool

func newScope(taken ...string) scope {
	s := make(scope)
	for _, name := range taken {
		s[name] = true
	}
	return s
}

func (s scope) declare(base string) string {
	name := base
	if reservedWords[name] || s[name] {
		name = base + "_"
	}
	for i := 2; s[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	s[name] = true
	return name
}
