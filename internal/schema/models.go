package schema

// Schema is the root of a parsed .faux.gql file
type Schema struct {
	Types    []ObjectType `json:"types"`
	Enums    []EnumType   `json:"enums"`
	Services []Service    `json:"services"`
	Meta     Metadata     `json:"meta"`
}

// Metadata represents global metadata for the IDL file
type Metadata struct {
	Namespace string `json:"namespace"`
	Version   string `json:"version"`
}

// ObjectType represents a top-level "type" block
type ObjectType struct {
	Name       string      `json:"name"`
	Doc        string      `json:"doc"`
	Fields     []Field     `json:"fields"`
	Directives []Directive `json:"directives"`
}

// Field represents a field inside a type, or a method parameter
type Field struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Required   bool        `json:"required"`
	Directives []Directive `json:"directives"`
	Doc        string      `json:"doc"`
}

// EnumType represents an enum definition
type EnumType struct {
	Name   string      `json:"name"`
	Doc    string      `json:"doc"`
	Values []EnumValue `json:"values"`
}

// EnumValue represents a single value inside an enum
type EnumValue struct {
	Name string `json:"name"`
	Doc  string `json:"doc"`
}

// Service represents a "service" block (transformed from type Service_*)
type Service struct {
	Name       string      `json:"name"`
	Doc        string      `json:"doc"`
	TypeParams []string    `json:"typeParams,omitempty"`
	Directives []Directive `json:"directives"`
	Methods    []Method    `json:"methods"`
}

// Method represents a single service method
type Method struct {
	Name           string      `json:"name"`
	Params         []Field     `json:"params"`
	OutputType     string      `json:"outputType"`
	OutputRequired bool        `json:"outputRequired"`
	Directives     []Directive `json:"directives"`
	Doc            string      `json:"doc"`
}

// Directive represents an attached directive (e.g. @http, @path)
type Directive struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args"`
}

// FindDirective returns the first directive with the given name
func FindDirective(list []Directive, name string) (Directive, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}
	return Directive{}, false
}

// HasDirective reports whether a directive with the given name is present
func HasDirective(list []Directive, name string) bool {
	_, ok := FindDirective(list, name)
	return ok
}
