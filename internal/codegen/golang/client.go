package golang

import (
	"fmt"

	"github.com/okra-platform/faux/internal/codegen/writer"
	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/contract"
)

// clientFile renders one contract implementation
type clientFile struct {
	contract *compiler.Contract
	imports  *importSet
	q        contract.Qualifier

	// import identifiers
	rt     string
	ctxPkg string
	urlPkg string

	impl string
}

func (f *clientFile) reserved() []string {
	return append(f.imports.names(), locals...)
}

func (f *clientFile) writeType(w *writer.Writer, sealed bool) {
	c := f.contract
	iface := c.Type().Format(f.q)

	w.WriteLinef("// %s is the HTTP client for %s.", f.impl, iface)
	if doc := c.Doc; doc != "" {
		w.WriteLine("//")
		w.WriteDocComment(doc)
	}
	w.WriteBlock(fmt.Sprintf("type %s struct {", f.impl), "}", func() {
		w.WriteLinef("%s.Base", f.rt)
	})
	w.BlankLine()

	w.WriteLinef("var _ %s = (*%s)(nil)", iface, f.impl)
	w.BlankLine()

	ctor := "New" + exportedName(f.impl)
	ret := "*" + f.impl
	if sealed {
		ret = iface
	}

	w.WriteLinef("// %s creates a client for the %q service.", ctor, c.Service)
	w.WriteBlock(fmt.Sprintf("func %s(doer %s.Doer, opts ...%s.Option) %s {", ctor, f.rt, f.rt, ret), "}", func() {
		w.WriteLinef("return &%s{Base: %s.NewBase(doer, %q, %q, opts...)}", f.impl, f.rt, c.Service, c.Route)
	})
}

func (f *clientFile) writeMethod(w *writer.Writer, m *compiler.Method) error {
	name, err := methodName(f.contract, m)
	if err != nil {
		return err
	}
	if err := f.check(m); err != nil {
		return err
	}

	names := paramNames(m, f.reserved()...)

	w.WriteDocComment(m.Doc)
	w.WriteLinef("func (c *%s) %s {", f.impl, signature(name, m, names, f.ctxPkg, f.q))
	w.Indent()

	switch {
	case !m.Async():
		f.writeBody(w, m, names)
	case m.Void:
		w.WriteLinef("return %s.Run(func() error {", f.rt)
		w.Indent()
		f.writeBody(w, m, names)
		w.Dedent()
		w.WriteLine("})")
	default:
		w.WriteLinef("return %s.Go(func() (%s, error) {", f.rt, m.Returns.Format(f.q))
		w.Indent()
		f.writeBody(w, m, names)
		w.Dedent()
		w.WriteLine("})")
	}

	w.Dedent()
	w.WriteLine("}")
	return nil
}

// check rejects shapes the runtime cannot produce
func (f *clientFile) check(m *compiler.Method) error {
	fail := func(format string, args ...any) error {
		return &compiler.CompileError{
			Contract: f.contract.Name,
			Method:   m.Name,
			Message:  fmt.Sprintf(format, args...),
		}
	}

	if m.Async() {
		d := m.Declared
		var inner contract.TypeRef
		if d.IsPointer() {
			inner = *d.Elem
		}
		task := inner.Kind == contract.KindNamed && inner.Package == contract.RuntimePackage && inner.Name == "Task"
		future := inner.Kind == contract.KindNamed && inner.Package == contract.RuntimePackage && inner.Name == "Future" && len(inner.Args) == 1
		if !(task && m.Void) && !future {
			return fail("asynchronous result %s must be *%s.Task or *%s.Future[T]", d, contract.RuntimePackageName, contract.RuntimePackageName)
		}
	}

	if m.Void || m.Return.Role != compiler.ReturnBody {
		return nil
	}

	r := m.Returns
	switch m.Return.Kind {
	case compiler.BodyText:
		if !(r.Kind == contract.KindBasic && r.Name == "string") && r.Kind != contract.KindNamed {
			return fail("text return requires a string type, got %s", r)
		}
	case compiler.BodyRaw:
		byteSlice := r.Kind == contract.KindSlice && r.Elem.Kind == contract.KindBasic && (r.Elem.Name == "byte" || r.Elem.Name == "uint8")
		if !byteSlice && r.Kind != contract.KindNamed {
			return fail("raw return requires a byte slice type, got %s", r)
		}
	}
	return nil
}

// writeBody renders the plan steps. The same body serves synchronous
// methods and the closures of asynchronous ones.
func (f *clientFile) writeBody(w *writer.Writer, m *compiler.Method, names map[*compiler.Parameter]string) {
	// prelude is set once anything precedes the request construction
	prelude := false

	fail := "return err"
	if !m.Void {
		fail = "return zero, err"
		w.WriteLinef("var zero %s", m.Returns.Format(f.q))
		prelude = true
	}
	if !m.Context {
		w.WriteLinef("ctx := %s.Background()", f.ctxPkg)
		prelude = true
	}

	check := func() {
		w.WriteBlock("if err != nil {", "}", func() { w.WriteLine(fail) })
	}

	deferred := m.Plan.Has(compiler.StepExtractResponseHeader) ||
		(!m.Void && m.Return.Role == compiler.ReturnHeader)

	varsArg, paramsArg := "nil", "nil"

	for _, step := range m.Plan.Steps {
		switch step.Kind {
		case compiler.StepBindPathVariables:
			w.WriteBlock("vars := map[string]any{", "}", func() {
				for _, b := range step.Bindings {
					w.WriteLinef("%q: %s,", b.Key, names[b.Param])
				}
			})
			varsArg = "vars"
			prelude = true

		case compiler.StepBindQueryParams:
			w.WriteLinef("params := %s.Values{}", f.urlPkg)
			for _, b := range step.Bindings {
				w.WriteBlock(fmt.Sprintf("if err := %s.AddQuery(params, %q, %s); err != nil {", f.rt, b.Key, names[b.Param]), "}", func() {
					w.WriteLine(fail)
				})
			}
			paramsArg = "params"
			prelude = true

		case compiler.StepConstructRequest:
			if prelude {
				w.BlankLine()
			}
			w.WriteLinef("req, err := c.Base.CreateRequest(ctx, %q, %q, %s, %s)", step.Verb, step.Path, varsArg, paramsArg)
			check()

		case compiler.StepAttachRequestHeader, compiler.StepAttachContentHeader:
			w.WriteBlock(fmt.Sprintf("if err := %s.SetHeader(req.Header, %q, %s); err != nil {", f.rt, step.Header, names[step.Param]), "}", func() {
				w.WriteLine(fail)
			})

		case compiler.StepAttachBody:
			w.WriteLinef("content, err := %s.%s(%s)", f.rt, contentFunc(step.BodyKind), names[step.Param])
			check()
			w.WriteLine("c.Base.Attach(req, content)")

		case compiler.StepInvoke:
			w.BlankLine()
			if step.Mode == compiler.Async {
				w.WriteLine("resp, err := c.Base.InvokeAsync(req).Await(ctx)")
			} else {
				w.WriteLine("resp, err := c.Base.Invoke(req)")
			}
			check()
			if deferred {
				w.WriteLinef("defer %s.Discard(resp)", f.rt)
			}

		case compiler.StepExtractResponseHeader:
			p := names[step.Param]
			w.WriteBlock(fmt.Sprintf("if %s != nil {", p), "}", func() {
				w.WriteBlock(fmt.Sprintf("if *%s, err = %s.HeaderValue[%s](resp, %q); err != nil {", p, f.rt, step.Type.Format(f.q), step.Header), "}", func() {
					w.WriteLine(fail)
				})
			})

		case compiler.StepMaterializeReturn:
			typ := step.Type.Format(f.q)
			if step.Source == compiler.ReturnHeader {
				w.WriteLinef("return %s.HeaderValue[%s](resp, %q)", f.rt, typ, step.Header)
			} else {
				w.WriteLinef("return %s.%s[%s](resp)", f.rt, readFunc(step.BodyKind), typ)
			}
		}
	}

	if m.Void {
		if deferred {
			w.WriteLine("return nil")
		} else {
			w.WriteLinef("return %s.Discard(resp)", f.rt)
		}
	}
}

func contentFunc(kind compiler.BodyKind) string {
	switch kind {
	case compiler.BodyText:
		return "TextContent"
	case compiler.BodyRaw:
		return "RawContent"
	case compiler.BodyForm:
		return "FormContent"
	default:
		return "JSONContent"
	}
}

func readFunc(kind compiler.BodyKind) string {
	switch kind {
	case compiler.BodyText:
		return "ReadText"
	case compiler.BodyRaw:
		return "ReadRaw"
	default:
		return "ReadJSON"
	}
}
