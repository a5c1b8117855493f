// Package openapi describes compiled contracts as OpenAPI 3 documents.
// Each contract becomes one document; IDL models go to a shared
// components document the contract documents reference.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/contract"
)

// Version is the OpenAPI version of generated documents
const Version = "3.0.3"

// Media types of the body kinds
const (
	MediaJSON = "application/json"
	MediaText = "text/plain"
	MediaRaw  = "application/octet-stream"
	MediaForm = "application/x-www-form-urlencoded"
)

// Emitter generates OpenAPI documents
type Emitter struct {
	namespace string

	// inModels makes model references local to the document
	inModels bool
}

// NewEmitter creates an OpenAPI emitter. The namespace is recorded on
// every document as x-faux-namespace.
func NewEmitter(namespace string) *Emitter {
	return &Emitter{namespace: namespace}
}

// Language returns the name of the target language
func (e *Emitter) Language() string {
	return "openapi"
}

// FileExtension returns the file extension for generated files
func (e *Emitter) FileExtension() string {
	return ".json"
}

// Emit describes c as a standalone document
func (e *Emitter) Emit(c *compiler.Contract) ([]byte, error) {
	doc := e.newDocument(c.TypeName, c.Doc)
	doc.Servers = openapi3.Servers{{URL: "http://" + c.Service}}
	doc.Extensions["x-faux-contract"] = c.Name
	doc.Extensions["x-faux-service"] = c.Service

	for _, m := range c.Methods {
		key := pathKey(c.Route, m.Path)
		item := doc.Paths[key]
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths[key] = item
		}
		if item.GetOperation(m.Verb) != nil {
			return nil, &compiler.CompileError{
				Contract: c.Name,
				Method:   m.Name,
				Message:  fmt.Sprintf("%s %s is already bound to another method", m.Verb, key),
			}
		}
		item.SetOperation(m.Verb, e.operation(c, m))
	}

	return marshal(doc)
}

func (e *Emitter) newDocument(title, description string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       title,
			Description: description,
			Version:     "1.0.0",
		},
		Paths:      openapi3.Paths{},
		Extensions: map[string]interface{}{},
	}
	if e.namespace != "" {
		doc.Extensions["x-faux-namespace"] = e.namespace
	}
	return doc
}

// pathKey joins the client route and the method path
func pathKey(route, path string) string {
	route = strings.Trim(route, "/")
	path = strings.TrimPrefix(path, "/")
	switch {
	case route == "":
		return "/" + path
	case path == "":
		return "/" + route
	default:
		return "/" + route + "/" + path
	}
}

func (e *Emitter) operation(c *compiler.Contract, m *compiler.Method) *openapi3.Operation {
	op := &openapi3.Operation{
		Tags:        []string{c.TypeName},
		OperationID: operationID(m.Name),
		Responses:   openapi3.Responses{},
	}
	if m.Doc != "" {
		summary, _, _ := strings.Cut(m.Doc, "\n")
		op.Summary = summary
		op.Description = m.Doc
	}
	if m.Async() {
		op.Extensions = map[string]interface{}{"x-faux-async": true}
	}

	resp := openapi3.NewResponse().WithDescription(responseDescription(m))

	for _, step := range m.Plan.Steps {
		switch step.Kind {
		case compiler.StepBindPathVariables:
			for _, b := range step.Bindings {
				param := openapi3.NewPathParameter(b.Key)
				param.Schema = e.schemaRef(b.Param.Type.Deref())
				op.AddParameter(param)
			}

		case compiler.StepBindQueryParams:
			for _, b := range step.Bindings {
				param := openapi3.NewQueryParameter(b.Key).WithRequired(!b.Param.Type.IsPointer())
				param.Schema = e.schemaRef(b.Param.Type.Deref())
				op.AddParameter(param)
			}

		case compiler.StepAttachRequestHeader, compiler.StepAttachContentHeader:
			param := openapi3.NewHeaderParameter(step.Header).WithRequired(!step.Param.Type.IsPointer())
			param.Schema = e.schemaRef(step.Param.Type.Deref())
			op.AddParameter(param)

		case compiler.StepAttachBody:
			op.RequestBody = &openapi3.RequestBodyRef{Value: e.requestBody(step)}

		case compiler.StepExtractResponseHeader:
			addHeader(resp, step.Header, e.schemaRef(step.Type))

		case compiler.StepMaterializeReturn:
			if step.Source == compiler.ReturnHeader {
				h := addHeader(resp, step.Header, e.schemaRef(step.Type))
				h.Required = !step.Type.Nillable()
				continue
			}
			resp.Content = openapi3.NewContentWithSchemaRef(e.bodySchema(step.BodyKind, step.Type), []string{mediaType(step.BodyKind)})
		}
	}

	status := http.StatusOK
	if m.Void {
		status = http.StatusNoContent
	}
	op.Responses[fmt.Sprint(status)] = &openapi3.ResponseRef{Value: resp}
	return op
}

func (e *Emitter) requestBody(step compiler.Step) *openapi3.RequestBody {
	t := step.Param.Type
	return openapi3.NewRequestBody().
		WithRequired(!t.IsPointer()).
		WithSchemaRef(e.bodySchema(step.BodyKind, t.Deref()), []string{mediaType(step.BodyKind)})
}

// bodySchema is the payload schema of a body of the given kind
func (e *Emitter) bodySchema(kind compiler.BodyKind, t contract.TypeRef) *openapi3.SchemaRef {
	switch kind {
	case compiler.BodyText:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	case compiler.BodyRaw:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithFormat("binary"))
	default:
		return e.schemaRef(t)
	}
}

func addHeader(resp *openapi3.Response, name string, schema *openapi3.SchemaRef) *openapi3.Header {
	if resp.Headers == nil {
		resp.Headers = openapi3.Headers{}
	}
	h := &openapi3.Header{Parameter: openapi3.Parameter{Schema: schema}}
	resp.Headers[name] = &openapi3.HeaderRef{Value: h}
	return h
}

func mediaType(kind compiler.BodyKind) string {
	switch kind {
	case compiler.BodyText:
		return MediaText
	case compiler.BodyRaw:
		return MediaRaw
	case compiler.BodyForm:
		return MediaForm
	default:
		return MediaJSON
	}
}

func responseDescription(m *compiler.Method) string {
	switch {
	case m.Void:
		return "Completed"
	case m.Return.Role == compiler.ReturnHeader:
		return fmt.Sprintf("Result in the %s header", m.Return.Header)
	default:
		return "Result"
	}
}

// operationID lowers the first rune of the method name
func operationID(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

func marshal(doc *openapi3.T) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return append(out, '\n'), nil
}
