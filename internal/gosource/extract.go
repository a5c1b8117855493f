package gosource

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/contract"
)

// Extract finds every type declaration in files whose doc comment carries
// //faux:client and describes it as a contract candidate. pkg and info are
// the type-checked package the files belong to.
func Extract(fset *token.FileSet, files []*ast.File, pkg *types.Package, info *types.Info) ([]contract.TypeInfo, error) {
	var out []contract.TypeInfo

	for _, f := range files {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, s := range gen.Specs {
				spec := s.(*ast.TypeSpec)

				doc := spec.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				dirs, err := parseDirectives(fset, doc)
				if err != nil {
					return nil, err
				}

				client, found := findDirective(dirs, contract.AnnotationClient)
				if !found {
					continue
				}

				ti, err := extractType(fset, spec, doc, dirs, client, pkg, info)
				if err != nil {
					return nil, err
				}
				out = append(out, ti)
			}
		}
	}

	return out, nil
}

func extractType(fset *token.FileSet, spec *ast.TypeSpec, doc *ast.CommentGroup, dirs []Directive, client Directive, pkg *types.Package, info *types.Info) (contract.TypeInfo, error) {
	name := spec.Name.Name
	ti := contract.TypeInfo{
		Name:        name,
		Package:     pkg.Path(),
		PackageName: pkg.Name(),
		Doc:         strings.TrimSpace(doc.Text()),
		Pos:         fset.Position(spec.Pos()).String(),
		Public:      ast.IsExported(name),
		Annotations: []contract.Annotation{client.Annotation},
	}

	for _, d := range dirs {
		if d.Annotation.Kind != contract.AnnotationClient {
			return ti, fmt.Errorf("%s: %s%s is not allowed on a type", d.Annotation.Pos, directivePrefix, d.Name)
		}
	}

	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			for _, n := range field.Names {
				ti.TypeParams = append(ti.TypeParams, n.Name)
			}
		}
	}

	iface, ok := spec.Type.(*ast.InterfaceType)
	if !ok {
		return ti, nil
	}
	ti.Interface = true

	// Ineligible candidates carry no methods; the validator reports them
	if !ti.Public || ti.Generic() {
		return ti, nil
	}

	conv := newTypeConverter()
	for _, field := range iface.Methods.List {
		if len(field.Names) == 0 {
			return ti, &compiler.CompileError{
				Contract: ti.FullName(),
				Message:  "embedded interfaces are not supported",
				Pos:      fset.Position(field.Pos()).String(),
			}
		}

		for _, n := range field.Names {
			mi, err := extractMethod(fset, ti.FullName(), n, field.Doc, info, conv)
			if err != nil {
				return ti, err
			}
			ti.Methods = append(ti.Methods, mi)
		}
	}

	return ti, nil
}

func extractMethod(fset *token.FileSet, contractName string, ident *ast.Ident, doc *ast.CommentGroup, info *types.Info, conv *typeConverter) (contract.MethodInfo, error) {
	pos := fset.Position(ident.Pos()).String()
	mi := contract.MethodInfo{
		Name: ident.Name,
		Doc:  strings.TrimSpace(doc.Text()),
		Pos:  pos,
	}

	fail := func(param, format string, args ...any) error {
		return &compiler.CompileError{
			Contract:  contractName,
			Method:    ident.Name,
			Parameter: param,
			Message:   fmt.Sprintf(format, args...),
			Pos:       pos,
		}
	}

	fn, ok := info.Defs[ident].(*types.Func)
	if !ok {
		return mi, fail("", "method has no type information")
	}
	sig := fn.Type().(*types.Signature)

	if sig.Variadic() {
		return mi, fail("", "variadic parameters are not supported")
	}

	params := sig.Params()
	index := make(map[string]int, params.Len())
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)

		if i == 0 && isContext(p.Type()) {
			mi.Context = true
			continue
		}
		if p.Name() == "" || p.Name() == "_" {
			return mi, fail("", "parameter %d must be named", i)
		}

		index[p.Name()] = len(mi.Params)
		mi.Params = append(mi.Params, contract.ParamInfo{
			Name: p.Name(),
			Type: conv.convert(p.Type()),
			Pos:  fset.Position(p.Pos()).String(),
		})
	}

	result, err := resultType(sig.Results(), conv)
	if err != nil {
		return mi, fail("", "%v", err)
	}
	mi.Result = result

	dirs, err := parseDirectives(fset, doc)
	if err != nil {
		return mi, err
	}

	for _, d := range dirs {
		a := d.Annotation
		switch {
		case a.Kind == contract.AnnotationClient:
			return mi, fail("", "%s%s is not allowed on a method", directivePrefix, d.Name)

		case contract.IsParameterRole(a.Kind):
			target := d.Param()
			i, ok := index[target]
			if !ok {
				return mi, fail(target, "%s%s names unknown parameter %q", directivePrefix, d.Name, target)
			}
			mi.Params[i].Annotations = append(mi.Params[i].Annotations, paramAnnotation(a))

		case a.Kind == contract.AnnotationReturnBody || a.Kind == contract.AnnotationReturnHeader:
			mi.ReturnAnnotations = append(mi.ReturnAnnotations, a)

		default:
			mi.Annotations = append(mi.Annotations, a)
		}
	}

	return mi, nil
}

// paramAnnotation drops the parameter selector from a role annotation
func paramAnnotation(a contract.Annotation) contract.Annotation {
	args := make(map[string]string, len(a.Args))
	for k, v := range a.Args {
		if k != argParam {
			args[k] = v
		}
	}
	a.Args = args
	return a
}

// resultType maps the supported result lists onto the declared return type:
// error, (T, error), *fauxhttp.Task and *fauxhttp.Future[T].
func resultType(results *types.Tuple, conv *typeConverter) (contract.TypeRef, error) {
	switch results.Len() {
	case 1:
		t := results.At(0).Type()
		if isError(t) {
			return contract.Void, nil
		}
		ref := conv.convert(t)
		if ref.DerivesFrom(contract.RuntimePackage, "Task") {
			return ref, nil
		}
	case 2:
		if isError(results.At(1).Type()) {
			return conv.convert(results.At(0).Type()), nil
		}
	}

	return contract.TypeRef{}, fmt.Errorf("unsupported result list %s", types.TypeString(results, packageNameQualifier))
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}

func findDirective(dirs []Directive, kind contract.AnnotationKind) (Directive, bool) {
	for _, d := range dirs {
		if d.Annotation.Kind == kind {
			return d, true
		}
	}
	return Directive{}, false
}
