// Package typescript emits self-contained fetch clients for compiled
// contracts, plus a models module for IDL schemas.
package typescript

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/okra-platform/faux/internal/codegen/writer"
	"github.com/okra-platform/faux/internal/compiler"
)

// Header marks every generated file
const Header = "// Code generated by faux. DO NOT EDIT."

// ModelsModule is the import path clients use for IDL models
const ModelsModule = "./models"

//go:embed prelude.ts
var prelude string

// Identifiers used inside generated method bodies
var locals = []string{"vars", "params", "url", "headers", "init", "resp"}

// Emitter generates TypeScript code
type Emitter struct{}

// NewEmitter creates a new TypeScript emitter
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Language returns the name of the target language
func (e *Emitter) Language() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (e *Emitter) FileExtension() string {
	return ".ts"
}

// Emit generates the client class of c
func (e *Emitter) Emit(c *compiler.Contract) ([]byte, error) {
	w := writer.NewWriter("  ")
	w.WriteLine(Header)
	w.BlankLine()

	className := c.ClassName()
	implements := ""
	if c.Local() {
		className += "Client"
		implements = " implements " + c.TypeName

		used := map[string]bool{c.TypeName: true}
		for _, m := range c.Methods {
			for _, p := range m.Params {
				localTypes(p.Type, used)
			}
			localTypes(m.Returns, used)
		}
		names := make([]string, 0, len(used))
		for name := range used {
			names = append(names, name)
		}
		sort.Strings(names)
		w.WriteLinef("import type { %s } from %q;", strings.Join(names, ", "), ModelsModule)
		w.BlankLine()
	}

	w.Write(prelude)
	w.BlankLine()

	if c.Doc != "" {
		w.WriteJSDoc(c.Doc)
	} else {
		w.WriteJSDoc(fmt.Sprintf("HTTP client for the %s service.", c.Service))
	}
	w.WriteLinef("export class %s extends Base%s {", className, implements)
	w.Indent()
	w.WriteBlock("constructor(options: ClientOptions = {}) {", "}", func() {
		w.WriteLinef("super(%q, %q, options);", c.Service, c.Route)
	})

	for _, m := range c.Methods {
		w.BlankLine()
		writeMethod(w, m)
	}

	w.Dedent()
	w.WriteLine("}")

	return w.Bytes(), nil
}

// paramNames assigns a TypeScript identifier to every parameter
func paramNames(m *compiler.Method, reserved ...string) map[*compiler.Parameter]string {
	sc := newScope(reserved...)
	out := make(map[*compiler.Parameter]string, len(m.Params))
	for _, p := range m.Params {
		out[p] = sc.declare(p.Name)
	}
	return out
}

// signature renders "name(params): Promise<T>". Response-header parameters
// are holders the method fills in; trailing nullable parameters are optional.
func signature(m *compiler.Method, names map[*compiler.Parameter]string) string {
	optionalFrom := len(m.Params)
	for i := len(m.Params) - 1; i >= 0; i-- {
		p := m.Params[i]
		if p.Role == compiler.RoleResponseHeader || !p.Type.IsPointer() {
			break
		}
		optionalFrom = i
	}

	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		switch {
		case p.Role == compiler.RoleResponseHeader:
			args[i] = fmt.Sprintf("%s: { value?: %s }", names[p], tsType(p.Type.Deref()))
		case i >= optionalFrom:
			args[i] = fmt.Sprintf("%s?: %s", names[p], tsType(p.Type))
		default:
			args[i] = fmt.Sprintf("%s: %s", names[p], tsType(p.Type))
		}
	}

	return fmt.Sprintf("%s(%s): Promise<%s>", camelCase(m.Name), strings.Join(args, ", "), tsType(m.Returns))
}

func writeMethod(w *writer.Writer, m *compiler.Method) {
	names := paramNames(m, locals...)

	w.WriteJSDoc(m.Doc)
	w.WriteLinef("async %s {", signature(m, names))
	w.Indent()

	needsResp := !m.Void || m.Plan.Has(compiler.StepExtractResponseHeader)
	varsArg, paramsArg := "{}", ""

	for _, step := range m.Plan.Steps {
		switch step.Kind {
		case compiler.StepBindPathVariables:
			pairs := make([]string, len(step.Bindings))
			for i, b := range step.Bindings {
				pairs[i] = fmt.Sprintf("%q: %s", b.Key, names[b.Param])
			}
			w.WriteLinef("const vars: Record<string, unknown> = { %s };", strings.Join(pairs, ", "))
			varsArg = "vars"

		case compiler.StepBindQueryParams:
			w.WriteLine("const params = new URLSearchParams();")
			for _, b := range step.Bindings {
				w.WriteLinef("addQuery(params, %q, %s);", b.Key, names[b.Param])
			}
			paramsArg = ", params"

		case compiler.StepConstructRequest:
			w.WriteLinef("const url = this.createUrl(%q, %s%s);", step.Path, varsArg, paramsArg)
			w.WriteLine("const headers = this.newHeaders();")
			w.WriteLinef("const init: RequestInit = { method: %q, headers };", step.Verb)

		case compiler.StepAttachRequestHeader, compiler.StepAttachContentHeader:
			w.WriteLinef("setHeader(headers, %q, %s);", step.Header, names[step.Param])

		case compiler.StepAttachBody:
			p := names[step.Param]
			switch step.BodyKind {
			case compiler.BodyText:
				w.WriteLinef("init.body = String(%s);", p)
				w.WriteLine(`defaultContentType(headers, "text/plain; charset=utf-8");`)
			case compiler.BodyRaw:
				w.WriteLinef("init.body = %s;", p)
				w.WriteLine(`defaultContentType(headers, "application/octet-stream");`)
			case compiler.BodyForm:
				w.WriteLinef("init.body = formBody(%s);", p)
			default:
				w.WriteLinef("init.body = JSON.stringify(%s);", p)
				w.WriteLine(`defaultContentType(headers, "application/json");`)
			}

		case compiler.StepInvoke:
			if needsResp {
				w.WriteLine("const resp = await this.invoke(url, init);")
			} else {
				w.WriteLine("await this.invoke(url, init);")
			}

		case compiler.StepExtractResponseHeader:
			w.WriteLinef("%s.value = headerValue(resp, %q, %q) ?? undefined;", names[step.Param], step.Header, headerKind(step.Type))

		case compiler.StepMaterializeReturn:
			switch {
			case step.Source == compiler.ReturnHeader:
				w.WriteLinef("return headerValue(resp, %q, %q);", step.Header, headerKind(step.Type))
			case step.BodyKind == compiler.BodyText:
				w.WriteLine("return await resp.text();")
			case step.BodyKind == compiler.BodyRaw:
				w.WriteLine("return await readRaw(resp);")
			default:
				w.WriteLine("return await readJSON(resp);")
			}
		}
	}

	w.Dedent()
	w.WriteLine("}")
}
