package golang

import (
	"fmt"

	"github.com/okra-platform/faux/internal/codegen/writer"
	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/contract"
	"github.com/okra-platform/faux/internal/schema"
)

// EmitModels generates the enums and structs declared by s, plus the
// interfaces of the IDL contracts so their clients have something to
// implement.
func (e *Emitter) EmitModels(s *schema.Schema, contracts []*compiler.Contract) ([]byte, error) {
	imps := newImportSet()

	fieldTypes := make(map[string][]contract.TypeRef, len(s.Types))
	for _, typ := range s.Types {
		for _, field := range typ.Fields {
			ft, err := s.FieldType(field)
			if err != nil {
				return nil, fmt.Errorf("type %s: field %s: %w", typ.Name, field.Name, err)
			}
			imps.addType(ft)
			fieldTypes[typ.Name] = append(fieldTypes[typ.Name], ft)
		}
	}

	var local []*compiler.Contract
	for _, c := range contracts {
		if !c.Local() {
			continue
		}
		local = append(local, c)
		for _, m := range c.Methods {
			for _, p := range m.Params {
				imps.addType(p.Type)
			}
			imps.addType(m.Declared)
		}
	}

	ctxPkg := ""
	if len(local) > 0 {
		ctxPkg = imps.add("context", "context")
	}

	w := writer.NewWriter("\t")
	w.WriteLine(Header)
	w.BlankLine()
	w.WriteLinef("package %s", e.pkg)
	w.BlankLine()
	imps.write(w)

	for _, enum := range s.Enums {
		generateEnum(w, enum)
		w.BlankLine()
	}

	for _, typ := range s.Types {
		generateType(w, typ, fieldTypes[typ.Name], imps.qualifier)
		w.BlankLine()
	}

	for _, c := range local {
		if err := generateInterface(w, c, imps, ctxPkg); err != nil {
			return nil, err
		}
		w.BlankLine()
	}

	return format("models.go", w.Bytes())
}

// generateEnum generates Go code for an enum type
func generateEnum(w *writer.Writer, enum schema.EnumType) {
	w.WriteDocComment(enum.Doc)
	w.WriteLinef("type %s string", enum.Name)
	w.BlankLine()

	w.WriteLine("const (")
	w.Indent()
	for _, value := range enum.Values {
		w.WriteDocComment(value.Doc)
		w.WriteLinef("%s%s %s = %q", enum.Name, value.Name, enum.Name, value.Name)
	}
	w.Dedent()
	w.WriteLine(")")

	w.BlankLine()
	w.WriteLinef("// Valid returns true if the %s is a valid value", enum.Name)
	w.WriteLinef("func (e %s) Valid() bool {", enum.Name)
	w.Indent()
	w.WriteLine("switch e {")
	if len(enum.Values) > 0 {
		w.Write("case ")
		for i, value := range enum.Values {
			if i > 0 {
				w.Write(", ")
			}
			w.Writef("%s%s", enum.Name, value.Name)
		}
		w.WriteLine(":")
		w.Indent()
		w.WriteLine("return true")
		w.Dedent()
	}
	w.WriteLine("default:")
	w.Indent()
	w.WriteLine("return false")
	w.Dedent()
	w.WriteLine("}")
	w.Dedent()
	w.WriteLine("}")
}

// generateType generates a Go struct for an object type
func generateType(w *writer.Writer, typ schema.ObjectType, fieldTypes []contract.TypeRef, q contract.Qualifier) {
	w.WriteDocComment(typ.Doc)
	w.WriteLinef("type %s struct {", typ.Name)
	w.Indent()

	for i, field := range typ.Fields {
		w.WriteDocComment(field.Doc)
		tag := field.Name
		if !field.Required {
			tag += ",omitempty"
		}
		w.WriteLinef("%s %s `json:\"%s\"`", exportedName(field.Name), fieldTypes[i].Format(q), tag)
	}

	w.Dedent()
	w.WriteLine("}")
}

// generateInterface renders the Go interface of an IDL contract
func generateInterface(w *writer.Writer, c *compiler.Contract, imps *importSet, ctxPkg string) error {
	if c.Doc != "" {
		w.WriteDocComment(c.Doc)
	} else {
		w.WriteLinef("// %s is the %q service contract", c.TypeName, c.Service)
	}

	w.WriteLinef("type %s interface {", c.TypeName)
	w.Indent()
	for i, m := range c.Methods {
		name, err := methodName(c, m)
		if err != nil {
			return err
		}
		if i > 0 {
			w.BlankLine()
		}
		w.WriteDocComment(m.Doc)
		names := paramNames(m, append(imps.names(), "ctx")...)
		w.WriteLine(signature(name, m, names, ctxPkg, imps.qualifier))
	}
	w.Dedent()
	w.WriteLine("}")
	return nil
}
