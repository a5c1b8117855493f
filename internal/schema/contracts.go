package schema

import (
	"fmt"
	"strings"

	"github.com/okra-platform/faux/internal/contract"
)

// VoidType is the IDL name of the empty result
const VoidType = "Void"

// Directive names understood on services, methods and parameters
const (
	DirectiveInternal = "internal"
	DirectiveAsync    = "async"
)

// scalarTypes maps IDL scalars to Go builtin types
var scalarTypes = map[string]contract.TypeRef{
	"String":  contract.Basic("string"),
	"ID":      contract.Basic("string"),
	"Int":     contract.Basic("int"),
	"Int64":   contract.Basic("int64"),
	"Float":   contract.Basic("float64"),
	"Boolean": contract.Basic("bool"),
	"Bytes":   contract.SliceOf(contract.Basic("byte")),
	"Time":    contract.Named("time", "time", "Time"),
	"Any":     contract.Any(),
}

// IsScalar reports whether name is a builtin IDL scalar
func IsScalar(name string) bool {
	_, ok := scalarTypes[name]
	return ok
}

var annotationKinds = map[string]contract.AnnotationKind{
	"client":         contract.AnnotationClient,
	"http":           contract.AnnotationHTTP,
	"path":           contract.AnnotationPath,
	"query":          contract.AnnotationQuery,
	"header":         contract.AnnotationHeader,
	"contentHeader":  contract.AnnotationContentHeader,
	"responseHeader": contract.AnnotationResponseHeader,
	"body":           contract.AnnotationBody,
	"returnBody":     contract.AnnotationReturnBody,
	"returnHeader":   contract.AnnotationReturnHeader,
}

// Contracts extracts one contract.TypeInfo per candidate declared in the
// schema: every service, plus every object type carrying @client. source
// names the file and is used for positions.
func (s *Schema) Contracts(source string) ([]contract.TypeInfo, error) {
	known := make(map[string]bool, len(s.Types)+len(s.Enums))
	for _, t := range s.Types {
		known[t.Name] = true
	}
	for _, e := range s.Enums {
		known[e.Name] = true
	}

	var infos []contract.TypeInfo

	for _, svc := range s.Services {
		info := contract.TypeInfo{
			Name:        svc.Name,
			Doc:         svc.Doc,
			Pos:         source,
			Interface:   true,
			Public:      !HasDirective(svc.Directives, DirectiveInternal),
			TypeParams:  svc.TypeParams,
			Annotations: toAnnotations(svc.Directives, source),
		}

		// Ineligible services carry no methods; the validator reports them
		if !info.Public || info.Generic() {
			infos = append(infos, info)
			continue
		}

		for _, m := range svc.Methods {
			mi, err := toMethod(m, source, func(name string) bool { return known[name] })
			if err != nil {
				return nil, fmt.Errorf("service %s: %w", svc.Name, err)
			}
			info.Methods = append(info.Methods, mi)
		}

		infos = append(infos, info)
	}

	// Object types marked as clients are candidates that fail validation
	for _, t := range s.Types {
		if !HasDirective(t.Directives, string(contract.AnnotationClient)) {
			continue
		}
		infos = append(infos, contract.TypeInfo{
			Name:        t.Name,
			Doc:         t.Doc,
			Pos:         source,
			Interface:   false,
			Public:      !HasDirective(t.Directives, DirectiveInternal),
			Annotations: toAnnotations(t.Directives, source),
		})
	}

	return infos, nil
}

func toMethod(m Method, source string, known func(string) bool) (contract.MethodInfo, error) {
	pos := source + ":" + m.Name
	mi := contract.MethodInfo{
		Name:    m.Name,
		Doc:     m.Doc,
		Pos:     pos,
		Context: true,
	}

	for _, d := range m.Directives {
		kind, ok := annotationKinds[d.Name]
		if !ok {
			continue
		}
		a := contract.Annotation{Kind: kind, Args: d.Args, Pos: pos}
		switch kind {
		case contract.AnnotationReturnBody, contract.AnnotationReturnHeader:
			mi.ReturnAnnotations = append(mi.ReturnAnnotations, a)
		default:
			mi.Annotations = append(mi.Annotations, a)
		}
	}

	for _, p := range m.Params {
		typ, err := resolveType(p.Type, known)
		if err != nil {
			return mi, fmt.Errorf("method %s: parameter %s: %w", m.Name, p.Name, err)
		}

		anns := toAnnotations(p.Directives, pos)
		_, responseHeader := contract.Find(anns, contract.AnnotationResponseHeader)
		if (!p.Required || responseHeader) && !typ.Nillable() {
			typ = contract.PointerTo(typ)
		}

		mi.Params = append(mi.Params, contract.ParamInfo{
			Name:        p.Name,
			Type:        typ,
			Annotations: anns,
			Pos:         pos,
		})
	}

	result := contract.Void
	if m.OutputType != VoidType {
		typ, err := resolveType(m.OutputType, known)
		if err != nil {
			return mi, fmt.Errorf("method %s: result: %w", m.Name, err)
		}
		if !m.OutputRequired && !typ.Nillable() {
			typ = contract.PointerTo(typ)
		}
		result = typ
	}

	if HasDirective(m.Directives, DirectiveAsync) {
		if result.IsVoid() {
			result = contract.PointerTo(contract.TaskType())
		} else {
			result = contract.PointerTo(contract.FutureType(result))
		}
	}
	mi.Result = result

	return mi, nil
}

// FieldType resolves the type of a model field. Nullable fields become
// pointers unless already nillable.
func (s *Schema) FieldType(f Field) (contract.TypeRef, error) {
	typ, err := resolveType(f.Type, s.isModel)
	if err != nil {
		return contract.TypeRef{}, err
	}
	if !f.Required && !typ.Nillable() {
		typ = contract.PointerTo(typ)
	}
	return typ, nil
}

func (s *Schema) isModel(name string) bool {
	for _, t := range s.Types {
		if t.Name == name {
			return true
		}
	}
	for _, e := range s.Enums {
		if e.Name == name {
			return true
		}
	}
	return false
}

// resolveType converts "Name" or "[Inner]" into a type reference. Model and
// enum names become local named types.
func resolveType(name string, known func(string) bool) (contract.TypeRef, error) {
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		elem, err := resolveType(name[1:len(name)-1], known)
		if err != nil {
			return contract.TypeRef{}, err
		}
		return contract.SliceOf(elem), nil
	}

	if t, ok := scalarTypes[name]; ok {
		return t, nil
	}
	if known(name) {
		return contract.Named("", "", name), nil
	}
	return contract.TypeRef{}, fmt.Errorf("unknown type %q", name)
}

func toAnnotations(directives []Directive, pos string) []contract.Annotation {
	var out []contract.Annotation
	for _, d := range directives {
		if kind, ok := annotationKinds[d.Name]; ok {
			out = append(out, contract.Annotation{Kind: kind, Args: d.Args, Pos: pos})
		}
	}
	return out
}
