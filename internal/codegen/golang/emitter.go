// Package golang emits Go HTTP clients for compiled contracts.
//
// Every client embeds fauxhttp.Base and renders each method's request plan
// as straight-line code against the runtime package.
package golang

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/imports"

	"github.com/okra-platform/faux/internal/codegen/writer"
	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/contract"
)

// Header marks every generated file
const Header = "// Code generated by faux. DO NOT EDIT."

// Identifiers used inside generated method bodies. Parameters colliding
// with them are renamed.
var locals = []string{"c", "ctx", "zero", "vars", "params", "req", "resp", "err", "content", "doer", "opts"}

// Emitter generates Go code
type Emitter struct {
	pkg    string
	sealed bool
}

// NewEmitter creates a Go emitter writing into the package named by the
// last element of namespace.
func NewEmitter(namespace string, sealed bool) *Emitter {
	return &Emitter{
		pkg:    packageName(namespace),
		sealed: sealed,
	}
}

// Language returns the name of the target language
func (e *Emitter) Language() string {
	return "go"
}

// FileExtension returns the file extension for generated files
func (e *Emitter) FileExtension() string {
	return ".go"
}

// Package returns the package name generated files declare
func (e *Emitter) Package() string {
	return e.pkg
}

// Emit generates the client implementation of c
func (e *Emitter) Emit(c *compiler.Contract) ([]byte, error) {
	imps := newImportSet()
	rt := imps.add(contract.RuntimePackage, contract.RuntimePackageName)
	ctxPkg := imps.add("context", "context")

	urlPkg := ""
	for _, m := range c.Methods {
		if m.Plan.Has(compiler.StepBindQueryParams) {
			urlPkg = imps.add("net/url", "url")
			break
		}
	}

	imps.addType(c.Type())
	for _, m := range c.Methods {
		for _, p := range m.Params {
			imps.addType(p.Type)
		}
		imps.addType(m.Declared)
	}

	f := &clientFile{
		contract: c,
		imports:  imps,
		rt:       rt,
		ctxPkg:   ctxPkg,
		urlPkg:   urlPkg,
		q:        imps.qualifier,
		impl:     implName(c, e.sealed),
	}

	w := writer.NewWriter("\t")
	w.WriteLine(Header)
	w.BlankLine()
	w.WriteLinef("package %s", e.pkg)
	w.BlankLine()
	imps.write(w)

	f.writeType(w, e.sealed)

	for _, m := range c.Methods {
		w.BlankLine()
		if err := f.writeMethod(w, m); err != nil {
			return nil, err
		}
	}

	return format(c.TypeName+".go", w.Bytes())
}

// implName is the generated struct name. IDL contracts share the package
// with their interface, so their implementation takes a suffix.
func implName(c *compiler.Contract, sealed bool) string {
	name := c.ClassName()
	if c.Local() {
		name += "Client"
	}
	if sealed {
		return unexportedName(name)
	}
	return name
}

// methodName is the Go name of a contract method
func methodName(c *compiler.Contract, m *compiler.Method) (string, error) {
	if c.Local() {
		return exportedName(m.Name), nil
	}
	if !token.IsExported(m.Name) {
		return "", &compiler.CompileError{
			Contract: c.Name,
			Method:   m.Name,
			Message:  "unexported methods cannot be implemented outside their package",
		}
	}
	return m.Name, nil
}

// paramNames assigns a Go identifier to every parameter, avoiding the
// reserved names and keywords.
func paramNames(m *compiler.Method, reserved ...string) map[*compiler.Parameter]string {
	sc := newScope(reserved...)
	out := make(map[*compiler.Parameter]string, len(m.Params))
	for _, p := range m.Params {
		out[p] = sc.declare(p.Name)
	}
	return out
}

// signature renders "Name(params) results"
func signature(name string, m *compiler.Method, names map[*compiler.Parameter]string, ctxPkg string, q contract.Qualifier) string {
	args := ""
	if m.Context {
		args = "ctx " + ctxPkg + ".Context"
	}
	for _, p := range m.Params {
		if args != "" {
			args += ", "
		}
		args += names[p] + " " + p.Type.Format(q)
	}
	return fmt.Sprintf("%s(%s) %s", name, args, results(m, q))
}

func results(m *compiler.Method, q contract.Qualifier) string {
	switch {
	case m.Async():
		return m.Declared.Format(q)
	case m.Void:
		return "error"
	default:
		return "(" + m.Returns.Format(q) + ", error)"
	}
}

func format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated %s: %w", filename, err)
	}
	return out, nil
}
