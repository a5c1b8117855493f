package typescript

import (
	"fmt"

	"github.com/okra-platform/faux/internal/codegen/writer"
	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/schema"
)

// EmitModels generates enums and interfaces for the schema's models, plus
// the interfaces IDL clients implement.
func (e *Emitter) EmitModels(s *schema.Schema, contracts []*compiler.Contract) ([]byte, error) {
	w := writer.NewWriter("  ")
	w.WriteLine(Header)
	w.BlankLine()

	for _, enum := range s.Enums {
		generateEnum(w, enum)
		w.BlankLine()
	}

	for _, typ := range s.Types {
		if err := generateType(w, s, typ); err != nil {
			return nil, err
		}
		w.BlankLine()
	}

	for _, c := range contracts {
		if !c.Local() {
			continue
		}
		generateInterface(w, c)
		w.BlankLine()
	}

	return w.Bytes(), nil
}

// generateEnum generates a TypeScript enum and its type guard
func generateEnum(w *writer.Writer, enum schema.EnumType) {
	w.WriteJSDoc(enum.Doc)
	w.WriteLinef("export enum %s {", enum.Name)
	w.Indent()
	for _, value := range enum.Values {
		w.WriteJSDoc(value.Doc)
		w.WriteLinef("%s = %q,", value.Name, value.Name)
	}
	w.Dedent()
	w.WriteLine("}")

	w.BlankLine()
	w.WriteLinef("export function is%s(value: any): value is %s {", enum.Name, enum.Name)
	w.Indent()
	w.WriteLinef("return Object.values(%s).includes(value);", enum.Name)
	w.Dedent()
	w.WriteLine("}")
}

// generateType generates a TypeScript interface for an object type.
// Nullable fields are optional.
func generateType(w *writer.Writer, s *schema.Schema, typ schema.ObjectType) error {
	w.WriteJSDoc(typ.Doc)
	w.WriteLinef("export interface %s {", typ.Name)
	w.Indent()

	for _, field := range typ.Fields {
		ft, err := s.FieldType(field)
		if err != nil {
			return fmt.Errorf("type %s: field %s: %w", typ.Name, field.Name, err)
		}

		w.WriteJSDoc(field.Doc)
		if field.Required {
			w.WriteLinef("%s: %s;", field.Name, tsType(ft))
		} else {
			w.WriteLinef("%s?: %s;", field.Name, tsType(ft.Deref()))
		}
	}

	w.Dedent()
	w.WriteLine("}")
	return nil
}

// generateInterface renders the contract shape an IDL client implements
func generateInterface(w *writer.Writer, c *compiler.Contract) {
	w.WriteJSDoc(c.Doc)
	w.WriteLinef("export interface %s {", c.TypeName)
	w.Indent()
	for i, m := range c.Methods {
		if i > 0 {
			w.BlankLine()
		}
		w.WriteJSDoc(m.Doc)
		w.WriteLinef("%s;", signature(m, paramNames(m, locals...)))
	}
	w.Dedent()
	w.WriteLine("}")
}
