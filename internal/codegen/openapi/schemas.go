package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/okra-platform/faux/internal/contract"
)

// ModelsDocument is the file IDL model references point into
const ModelsDocument = "models.json"

// schemaRef maps a type reference to a schema. IDL models are referenced
// in the models document; named types from Go packages are opaque objects
// tagged with their Go name.
func (e *Emitter) schemaRef(t contract.TypeRef) *openapi3.SchemaRef {
	switch t.Kind {
	case contract.KindPointer:
		ref := e.schemaRef(*t.Elem)
		if ref.Ref == "" {
			ref.Value.Nullable = true
		}
		return ref

	case contract.KindNamed:
		if t.Package == "" {
			return openapi3.NewSchemaRef(e.modelRef(t.Name), nil)
		}
	}
	return openapi3.NewSchemaRef("", schemaFor(t, e.schemaRef))
}

// modelRef is the reference to a model declared in the IDL. Inside the
// models document it is local.
func (e *Emitter) modelRef(name string) string {
	if e.inModels {
		return "#/components/schemas/" + name
	}
	return ModelsDocument + "#/components/schemas/" + name
}

// schemaFor builds an inline schema; ref resolves nested types
func schemaFor(t contract.TypeRef, ref func(contract.TypeRef) *openapi3.SchemaRef) *openapi3.Schema {
	switch t.Kind {
	case contract.KindBasic:
		return basicSchema(t.Name)

	case contract.KindSlice, contract.KindArray:
		if t.Elem.Kind == contract.KindBasic && (t.Elem.Name == "byte" || t.Elem.Name == "uint8") {
			return openapi3.NewBytesSchema()
		}
		s := openapi3.NewArraySchema()
		s.Items = ref(*t.Elem)
		return s

	case contract.KindMap:
		s := openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: ref(*t.Elem)}
		return s

	case contract.KindNamed:
		switch {
		case t.Package == "time" && t.Name == "Time":
			return openapi3.NewDateTimeSchema()
		case t.Package == "time" && t.Name == "Duration":
			return openapi3.NewInt64Schema()
		}
		s := openapi3.NewObjectSchema()
		s.Extensions = map[string]interface{}{"x-go-type": t.Package + "." + t.Name}
		return s
	}

	// any and unknown shapes accept every value
	return openapi3.NewSchema()
}

func basicSchema(name string) *openapi3.Schema {
	switch name {
	case "string":
		return openapi3.NewStringSchema()
	case "bool":
		return openapi3.NewBoolSchema()
	case "int32", "int16", "int8", "uint16", "uint8", "byte", "rune":
		return openapi3.NewInt32Schema()
	case "int64", "uint32", "uint64":
		return openapi3.NewInt64Schema()
	case "int", "uint", "uintptr":
		return openapi3.NewIntegerSchema()
	case "float32", "float64":
		return openapi3.NewFloat64Schema()
	default:
		return openapi3.NewSchema()
	}
}
