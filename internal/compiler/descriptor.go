package compiler

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okra-platform/faux/internal/contract"
)

// CompletionMode says whether a method returns directly or yields an
// asynchronous completion handle.
type CompletionMode int

const (
	Sync CompletionMode = iota
	Async
)

func (m CompletionMode) String() string {
	if m == Async {
		return "async"
	}
	return "sync"
}

// Role is the single HTTP role of a parameter
type Role int

const (
	RolePathVariable Role = iota
	RoleQueryParam
	RoleRequestHeader
	RoleContentHeader
	RoleResponseHeader
	RoleBody
)

func (r Role) String() string {
	switch r {
	case RolePathVariable:
		return "path-variable"
	case RoleQueryParam:
		return "query-parameter"
	case RoleRequestHeader:
		return "request-header"
	case RoleContentHeader:
		return "content-header"
	case RoleResponseHeader:
		return "response-header"
	case RoleBody:
		return "body"
	default:
		return "unknown"
	}
}

// BodyKind selects the payload encoding of a body
type BodyKind string

const (
	BodyJSON BodyKind = "json"
	BodyText BodyKind = "text"
	BodyRaw  BodyKind = "raw"
	BodyForm BodyKind = "form"
)

// ReturnRole says where a non-void result comes from
type ReturnRole int

const (
	ReturnBody ReturnRole = iota
	ReturnHeader
)

func (r ReturnRole) String() string {
	if r == ReturnHeader {
		return "response-header"
	}
	return "body"
}

// Contract is the compiled descriptor of one contract type
type Contract struct {
	// Name is the fully-qualified contract name
	Name        string
	TypeName    string
	Package     string
	PackageName string
	Doc         string

	// Service and Route come from the client annotation
	Service string
	Route   string

	Methods []*Method
}

// Local reports whether the contract type has no importable package
// (contracts declared in the IDL).
func (c *Contract) Local() bool {
	return c.Package == ""
}

// Type returns a reference to the contract type itself
func (c *Contract) Type() contract.TypeRef {
	return contract.Named(c.Package, c.PackageName, c.TypeName)
}

// ClassName is the simple name of the generated implementation
func (c *Contract) ClassName() string {
	if c.PackageName == "" {
		return c.TypeName
	}
	return cases.Title(language.Und, cases.NoLower).String(c.PackageName) + c.TypeName
}

// Method is the compiled descriptor of one contract method
type Method struct {
	Name    string
	Doc     string
	Verb    string
	Path    string
	Context bool

	Mode CompletionMode
	// Declared is the result type as written
	Declared contract.TypeRef
	// Returns is the effective return shape after unwrapping async wrappers
	Returns contract.TypeRef
	Void    bool

	Params []*Parameter
	Return ReturnSlot

	RequestHeaders []HeaderBinding
	ContentHeaders []HeaderBinding
	Body           *Parameter

	Plan Plan
}

// Async reports whether the method completes asynchronously
func (m *Method) Async() bool {
	return m.Mode == Async
}

// ParamsWithRole returns parameters of the given role in declaration order
func (m *Method) ParamsWithRole(role Role) []*Parameter {
	var out []*Parameter
	for _, p := range m.Params {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// Parameter is a role-tagged method parameter
type Parameter struct {
	Name string
	Type contract.TypeRef
	Role Role
	// Key is the path token, query name or header name
	Key      string
	BodyKind BodyKind
}

// HeaderBinding maps a header name to the parameter supplying it
type HeaderBinding struct {
	Header string
	Param  *Parameter
}

// ReturnSlot describes how a non-void result is materialized
type ReturnSlot struct {
	Role   ReturnRole
	Header string
	Kind   BodyKind
}
