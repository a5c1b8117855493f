package compiler

import (
	"fmt"
	"strings"

	"github.com/okra-platform/faux/internal/contract"
)

// StepKind identifies one request-construction step
type StepKind int

const (
	StepBindPathVariables StepKind = iota
	StepBindQueryParams
	StepConstructRequest
	StepAttachRequestHeader
	StepAttachBody
	StepAttachContentHeader
	StepInvoke
	StepExtractResponseHeader
	StepMaterializeReturn
)

func (k StepKind) String() string {
	switch k {
	case StepBindPathVariables:
		return "bind-path-variables"
	case StepBindQueryParams:
		return "bind-query-params"
	case StepConstructRequest:
		return "construct-request"
	case StepAttachRequestHeader:
		return "attach-request-header"
	case StepAttachBody:
		return "attach-body"
	case StepAttachContentHeader:
		return "attach-content-header"
	case StepInvoke:
		return "invoke"
	case StepExtractResponseHeader:
		return "extract-response-header"
	case StepMaterializeReturn:
		return "materialize-return"
	default:
		return "unknown"
	}
}

// Binding pairs a key (path token, query name) with its parameter
type Binding struct {
	Key   string
	Param *Parameter
}

// Step is one entry of a Plan. Only the fields relevant to Kind are set.
type Step struct {
	Kind StepKind

	// bind-path-variables, bind-query-params
	Bindings []Binding

	// construct-request
	Verb string
	Path string

	// attach-request-header, attach-content-header, extract-response-header,
	// materialize-return from a header
	Header string

	// attach-*, extract-response-header
	Param *Parameter

	// attach-body, materialize-return from the body
	BodyKind BodyKind

	// invoke
	Mode CompletionMode

	// materialize-return
	Source ReturnRole

	// extract-response-header, materialize-return
	Type contract.TypeRef
}

func (s Step) String() string {
	switch s.Kind {
	case StepBindPathVariables, StepBindQueryParams:
		keys := make([]string, len(s.Bindings))
		for i, b := range s.Bindings {
			keys[i] = b.Key + "=" + b.Param.Name
		}
		return fmt.Sprintf("%s(%s)", s.Kind, strings.Join(keys, ", "))
	case StepConstructRequest:
		return fmt.Sprintf("%s(%s, %q)", s.Kind, s.Verb, s.Path)
	case StepAttachRequestHeader, StepAttachContentHeader:
		return fmt.Sprintf("%s(%q, %s)", s.Kind, s.Header, s.Param.Name)
	case StepAttachBody:
		return fmt.Sprintf("%s(%s, %s)", s.Kind, s.Param.Name, s.BodyKind)
	case StepInvoke:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Mode)
	case StepExtractResponseHeader:
		return fmt.Sprintf("%s(%q, %s, %s)", s.Kind, s.Header, s.Param.Name, s.Type)
	case StepMaterializeReturn:
		if s.Source == ReturnHeader {
			return fmt.Sprintf("%s(header %q, %s)", s.Kind, s.Header, s.Type)
		}
		return fmt.Sprintf("%s(body %s, %s)", s.Kind, s.BodyKind, s.Type)
	default:
		return s.Kind.String()
	}
}

// Plan is the ordered request-construction recipe for one method
type Plan struct {
	Steps []Step
}

// Kinds returns the step kinds in order
func (p Plan) Kinds() []StepKind {
	kinds := make([]StepKind, len(p.Steps))
	for i, s := range p.Steps {
		kinds[i] = s.Kind
	}
	return kinds
}

// Has reports whether the plan contains a step of the given kind
func (p Plan) Has(kind StepKind) bool {
	for _, s := range p.Steps {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// String renders one step per line
func (p Plan) String() string {
	var sb strings.Builder
	for i, s := range p.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	return sb.String()
}

// BuildPlan assembles the ordered steps for a classified method. The order
// depends only on the method's content.
func BuildPlan(m *Method) Plan {
	var steps []Step

	if vars := bindings(m, RolePathVariable); len(vars) > 0 {
		steps = append(steps, Step{Kind: StepBindPathVariables, Bindings: vars})
	}

	if params := bindings(m, RoleQueryParam); len(params) > 0 {
		steps = append(steps, Step{Kind: StepBindQueryParams, Bindings: params})
	}

	steps = append(steps, Step{Kind: StepConstructRequest, Verb: m.Verb, Path: m.Path})

	for _, h := range m.RequestHeaders {
		steps = append(steps, Step{Kind: StepAttachRequestHeader, Header: h.Header, Param: h.Param})
	}

	// Content headers only exist alongside a body.
	if m.Body != nil {
		steps = append(steps, Step{Kind: StepAttachBody, Param: m.Body, BodyKind: m.Body.BodyKind})
		for _, h := range m.ContentHeaders {
			steps = append(steps, Step{Kind: StepAttachContentHeader, Header: h.Header, Param: h.Param})
		}
	}

	steps = append(steps, Step{Kind: StepInvoke, Mode: m.Mode})

	for _, p := range m.ParamsWithRole(RoleResponseHeader) {
		steps = append(steps, Step{
			Kind:   StepExtractResponseHeader,
			Header: p.Key,
			Param:  p,
			Type:   p.Type.Deref(),
		})
	}

	if !m.Void {
		step := Step{Kind: StepMaterializeReturn, Source: m.Return.Role, Type: m.Returns}
		if m.Return.Role == ReturnHeader {
			step.Header = m.Return.Header
		} else {
			step.BodyKind = m.Return.Kind
		}
		steps = append(steps, step)
	}

	return Plan{Steps: steps}
}

func bindings(m *Method, role Role) []Binding {
	var out []Binding
	for _, p := range m.ParamsWithRole(role) {
		out = append(out, Binding{Key: p.Key, Param: p})
	}
	return out
}
