package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

// Names synthesized by PreprocessGraphQL
const (
	schemaTypeName  = "_Schema"
	servicePrefix   = "Service_"
	typeParamsName  = "typeParams"
	metaDirective   = "faux"
	unknownTypeName = "Unknown"
)

// ParseSchema parses a .faux.gql document into a Schema
func ParseSchema(input string) (*Schema, error) {
	doc, report := astparser.ParseGraphqlDocumentString(PreprocessGraphQL(input))
	if report.HasErrors() {
		return nil, fmt.Errorf("failed to parse GraphQL: %v", report)
	}

	p := &parser{
		doc: &doc,
		schema: &Schema{
			Types:    []ObjectType{},
			Enums:    []EnumType{},
			Services: []Service{},
		},
	}

	for _, node := range doc.RootNodes {
		var err error
		switch node.Kind {
		case ast.NodeKindObjectTypeDefinition:
			err = p.objectDefinition(node.Ref)
		case ast.NodeKindEnumTypeDefinition:
			p.enumDefinition(node.Ref)
		}
		if err != nil {
			return nil, err
		}
	}

	return p.schema, nil
}

// parser lowers one GraphQL document into schema
type parser struct {
	doc    *ast.Document
	schema *Schema
}

func (p *parser) text(ref ast.ByteSliceReference) string {
	return p.doc.Input.ByteSliceString(ref)
}

func (p *parser) description(desc ast.Description) string {
	if !desc.IsDefined {
		return ""
	}
	return strings.TrimSpace(p.text(desc.Content))
}

// objectDefinition dispatches on the synthesized names: the metadata
// holder, a service, or a plain model type.
func (p *parser) objectDefinition(ref int) error {
	def := p.doc.ObjectTypeDefinitions[ref]
	name := p.text(def.Name)

	switch {
	case name == schemaTypeName:
		p.metadata(def)
		return nil
	case strings.HasPrefix(name, servicePrefix):
		p.service(def, strings.TrimPrefix(name, servicePrefix))
		return nil
	}

	typ := ObjectType{
		Name:       name,
		Doc:        p.description(def.Description),
		Fields:     make([]Field, 0, len(def.FieldsDefinition.Refs)),
		Directives: p.directives(def.Directives),
	}
	for _, ref := range def.FieldsDefinition.Refs {
		fd := p.doc.FieldDefinitions[ref]
		if len(fd.ArgumentsDefinition.Refs) > 0 {
			return fmt.Errorf("type %s: field %s cannot take arguments", name, p.text(fd.Name))
		}
		typ.Fields = append(typ.Fields, p.field(fd.Name, fd.Description, fd.Directives, fd.Type))
	}

	p.schema.Types = append(p.schema.Types, typ)
	return nil
}

func (p *parser) enumDefinition(ref int) {
	def := p.doc.EnumTypeDefinitions[ref]

	enum := EnumType{
		Name:   p.text(def.Name),
		Doc:    p.description(def.Description),
		Values: make([]EnumValue, 0, len(def.EnumValuesDefinition.Refs)),
	}
	for _, ref := range def.EnumValuesDefinition.Refs {
		vd := p.doc.EnumValueDefinitions[ref]
		enum.Values = append(enum.Values, EnumValue{
			Name: p.text(vd.EnumValue),
			Doc:  p.description(vd.Description),
		})
	}

	p.schema.Enums = append(p.schema.Enums, enum)
}

// metadata reads the @faux header the preprocessor moved onto _Schema
func (p *parser) metadata(def ast.ObjectTypeDefinition) {
	for _, ref := range def.FieldsDefinition.Refs {
		if d, ok := FindDirective(p.directives(p.doc.FieldDefinitions[ref].Directives), metaDirective); ok {
			p.schema.Meta = Metadata{
				Namespace: d.Args["namespace"],
				Version:   d.Args["version"],
			}
			return
		}
	}
}

func (p *parser) service(def ast.ObjectTypeDefinition, name string) {
	svc := Service{
		Name:    name,
		Doc:     p.description(def.Description),
		Methods: make([]Method, 0, len(def.FieldsDefinition.Refs)),
	}

	for _, d := range p.directives(def.Directives) {
		if d.Name == typeParamsName {
			svc.TypeParams = splitTypeParams(d.Args["names"])
			continue
		}
		svc.Directives = append(svc.Directives, d)
	}

	for _, ref := range def.FieldsDefinition.Refs {
		fd := p.doc.FieldDefinitions[ref]
		m := Method{
			Name:       p.text(fd.Name),
			Doc:        p.description(fd.Description),
			Directives: p.directives(fd.Directives),
			Params:     make([]Field, 0, len(fd.ArgumentsDefinition.Refs)),
		}
		m.OutputType, m.OutputRequired = p.typeName(fd.Type)

		// Every argument is a parameter, in declaration order
		for _, ref := range fd.ArgumentsDefinition.Refs {
			arg := p.doc.InputValueDefinitions[ref]
			m.Params = append(m.Params, p.field(arg.Name, arg.Description, arg.Directives, arg.Type))
		}
		svc.Methods = append(svc.Methods, m)
	}

	p.schema.Services = append(p.schema.Services, svc)
}

// field covers model fields and method arguments alike
func (p *parser) field(name ast.ByteSliceReference, desc ast.Description, dirs ast.DirectiveList, typeRef int) Field {
	f := Field{
		Name:       p.text(name),
		Doc:        p.description(desc),
		Directives: p.directives(dirs),
	}
	f.Type, f.Required = p.typeName(typeRef)
	return f
}

// typeName renders a type reference as "Name" or "[Inner]"; the bool
// reports an outer non-null marker. Inner nullability is not kept.
func (p *parser) typeName(ref int) (string, bool) {
	t := p.doc.Types[ref]
	required := t.TypeKind == ast.TypeKindNonNull
	if required {
		t = p.doc.Types[t.OfType]
	}

	switch t.TypeKind {
	case ast.TypeKindList:
		inner, _ := p.typeName(t.OfType)
		return "[" + inner + "]", required
	case ast.TypeKindNamed:
		return p.text(t.Name), required
	default:
		return unknownTypeName, required
	}
}

func (p *parser) directives(list ast.DirectiveList) []Directive {
	out := make([]Directive, 0, len(list.Refs))
	for _, ref := range list.Refs {
		d := p.doc.Directives[ref]
		args := make(map[string]string, len(d.Arguments.Refs))
		for _, argRef := range d.Arguments.Refs {
			args[p.text(p.doc.Arguments[argRef].Name)] = p.value(p.doc.ArgumentValue(argRef))
		}
		out = append(out, Directive{Name: p.text(d.Name), Args: args})
	}
	return out
}

// value flattens a directive argument to its string form
func (p *parser) value(v ast.Value) string {
	switch v.Kind {
	case ast.ValueKindString:
		return p.doc.StringValueContentString(v.Ref)
	case ast.ValueKindEnum:
		if v.Ref >= 0 && v.Ref < len(p.doc.EnumValues) {
			return p.text(p.doc.EnumValues[v.Ref].Name)
		}
	case ast.ValueKindBoolean:
		// Ref is 0 (false) or 1 (true) into BooleanValues
		if v.Ref >= 0 && v.Ref < len(p.doc.BooleanValues) {
			return strconv.FormatBool(bool(p.doc.BooleanValues[v.Ref]))
		}
	case ast.ValueKindInteger:
		return strconv.FormatInt(int64(p.doc.IntValueAsInt(v.Ref)), 10)
	case ast.ValueKindFloat:
		return strconv.FormatFloat(float64(p.doc.FloatValueAsFloat32(v.Ref)), 'g', -1, 32)
	}
	return ""
}
