package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/schema"
)

// EmitModels generates the components document holding the schema's enums
// and types. Contract documents reference it as ModelsDocument. Contracts
// are described by Emit and are not repeated here.
func (e *Emitter) EmitModels(s *schema.Schema, _ []*compiler.Contract) ([]byte, error) {
	local := *e
	local.inModels = true

	title := "Models"
	if s.Meta.Namespace != "" {
		title = s.Meta.Namespace + " models"
	}
	doc := local.newDocument(title, "")
	if s.Meta.Version != "" {
		doc.Info.Version = s.Meta.Version
	}
	doc.Components = &openapi3.Components{Schemas: openapi3.Schemas{}}

	for _, enum := range s.Enums {
		sc := openapi3.NewStringSchema()
		sc.Description = enum.Doc
		for _, v := range enum.Values {
			sc.Enum = append(sc.Enum, v.Name)
		}
		doc.Components.Schemas[enum.Name] = openapi3.NewSchemaRef("", sc)
	}

	for _, typ := range s.Types {
		sc := openapi3.NewObjectSchema()
		sc.Description = typ.Doc
		for _, field := range typ.Fields {
			ft, err := s.FieldType(field)
			if err != nil {
				return nil, fmt.Errorf("type %s: field %s: %w", typ.Name, field.Name, err)
			}

			ref := local.schemaRef(ft)
			if ref.Ref == "" && field.Doc != "" {
				ref.Value.Description = field.Doc
			}
			sc.Properties[field.Name] = ref
			if field.Required {
				sc.Required = append(sc.Required, field.Name)
			}
		}
		doc.Components.Schemas[typ.Name] = openapi3.NewSchemaRef("", sc)
	}

	return marshal(doc)
}
