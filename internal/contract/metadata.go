// Package contract holds the input metadata the compiler consumes: a plain,
// frontend-neutral description of a candidate contract type, its methods,
// parameters and declarative annotations.
//
// Frontends (the .faux.gql IDL parser and the Go source loader) produce
// TypeInfo values; nothing downstream looks at the original syntax.
package contract

// AnnotationKind names a declarative annotation
type AnnotationKind string

const (
	// Contract level
	AnnotationClient AnnotationKind = "client"

	// Method level
	AnnotationHTTP AnnotationKind = "http"

	// Parameter level
	AnnotationPath           AnnotationKind = "path"
	AnnotationQuery          AnnotationKind = "query"
	AnnotationHeader         AnnotationKind = "header"
	AnnotationContentHeader  AnnotationKind = "contentHeader"
	AnnotationResponseHeader AnnotationKind = "responseHeader"
	AnnotationBody           AnnotationKind = "body"

	// Return slot
	AnnotationReturnBody   AnnotationKind = "returnBody"
	AnnotationReturnHeader AnnotationKind = "returnHeader"
)

// Annotation argument names
const (
	ArgName   = "name"
	ArgRoute  = "route"
	ArgMethod = "method"
	ArgPath   = "path"
	ArgKind   = "kind"
)

// Annotation is one declarative marker attached to a contract, method,
// parameter or return slot.
type Annotation struct {
	Kind AnnotationKind    `json:"kind"`
	Args map[string]string `json:"args,omitempty"`
	Pos  string            `json:"pos,omitempty"`
}

// Arg returns the named argument, or "" when absent
func (a Annotation) Arg(name string) string {
	if a.Args == nil {
		return ""
	}
	return a.Args[name]
}

// TypeInfo describes a candidate contract type
type TypeInfo struct {
	Name        string       `json:"name"`
	Package     string       `json:"package,omitempty"`
	PackageName string       `json:"packageName,omitempty"`
	Doc         string       `json:"doc,omitempty"`
	Pos         string       `json:"pos,omitempty"`
	Interface   bool         `json:"interface"`
	Public      bool         `json:"public"`
	TypeParams  []string     `json:"typeParams,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Methods     []MethodInfo `json:"methods"`
}

// FullName returns the package-qualified type name
func (t TypeInfo) FullName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Generic reports whether the type declares type parameters
func (t TypeInfo) Generic() bool {
	return len(t.TypeParams) > 0
}

// MethodInfo describes one declared method
type MethodInfo struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`
	Pos  string `json:"pos,omitempty"`

	// Context is set when the method takes a leading context parameter
	Context bool `json:"context"`

	Params            []ParamInfo  `json:"params"`
	Result            TypeRef      `json:"result"`
	Annotations       []Annotation `json:"annotations,omitempty"`
	ReturnAnnotations []Annotation `json:"returnAnnotations,omitempty"`
}

// ParamInfo describes one declared parameter
type ParamInfo struct {
	Name        string       `json:"name"`
	Type        TypeRef      `json:"type"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Pos         string       `json:"pos,omitempty"`
}

// Find returns the first annotation of the given kind
func Find(list []Annotation, kind AnnotationKind) (Annotation, bool) {
	for _, a := range list {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// IsParameterRole reports whether kind assigns a parameter role
func IsParameterRole(kind AnnotationKind) bool {
	switch kind {
	case AnnotationPath, AnnotationQuery, AnnotationHeader, AnnotationContentHeader,
		AnnotationResponseHeader, AnnotationBody:
		return true
	}
	return false
}
