// Package compiler translates a validated contract description into
// per-method request plans.
//
// The pipeline is Validate, then for every method AnalyzeReturn, Classify
// and BuildPlan. It is pure: no I/O, no logging, no state kept between
// calls, so independent contracts may be compiled concurrently.
package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okra-platform/faux/internal/contract"
)

// Verbs lists the supported HTTP verbs
var Verbs = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

var placeholderRegex = regexp.MustCompile(`\{([^{}]+)\}`)

// Compile runs the full translation for one contract. Any error aborts the
// whole contract; a partially compiled contract is never returned.
func Compile(info contract.TypeInfo) (*Contract, error) {
	if err := Validate(info); err != nil {
		return nil, err
	}

	c := &Contract{
		Name:        info.FullName(),
		TypeName:    info.Name,
		Package:     info.Package,
		PackageName: info.PackageName,
		Doc:         info.Doc,
		Service:     info.Name,
	}

	if client, ok := contract.Find(info.Annotations, contract.AnnotationClient); ok {
		if name := client.Arg(contract.ArgName); name != "" {
			c.Service = name
		}
		c.Route = client.Arg(contract.ArgRoute)
	}

	seen := make(map[string]bool, len(info.Methods))
	for _, mi := range info.Methods {
		if seen[mi.Name] {
			return nil, &CompileError{Contract: c.Name, Method: mi.Name, Message: "duplicate method", Pos: mi.Pos}
		}
		seen[mi.Name] = true

		m, err := compileMethod(c.Name, mi)
		if err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, m)
	}

	return c, nil
}

func compileMethod(contractName string, mi contract.MethodInfo) (*Method, error) {
	fail := func(format string, args ...any) error {
		return &CompileError{
			Contract: contractName,
			Method:   mi.Name,
			Message:  fmt.Sprintf(format, args...),
			Pos:      mi.Pos,
		}
	}

	httpAnn, ok := contract.Find(mi.Annotations, contract.AnnotationHTTP)
	if !ok {
		return nil, fail("missing http annotation")
	}

	verb := strings.ToUpper(strings.TrimSpace(httpAnn.Arg(contract.ArgMethod)))
	if !isVerb(verb) {
		return nil, fail("unsupported HTTP verb %q", httpAnn.Arg(contract.ArgMethod))
	}

	path := strings.TrimSpace(httpAnn.Arg(contract.ArgPath))
	if path == "" {
		return nil, fail("http annotation requires a path")
	}

	shape := AnalyzeReturn(mi.Result)

	cls, err := Classify(contractName, mi, shape)
	if err != nil {
		return nil, err
	}

	if err := checkPathVariables(path, cls.Params); err != nil {
		return nil, fail("%v", err)
	}

	m := &Method{
		Name:           mi.Name,
		Doc:            mi.Doc,
		Verb:           verb,
		Path:           path,
		Context:        mi.Context,
		Mode:           shape.Mode,
		Declared:       mi.Result,
		Returns:        shape.Returns,
		Void:           shape.Void,
		Params:         cls.Params,
		Return:         cls.Return,
		RequestHeaders: cls.RequestHeaders,
		ContentHeaders: cls.ContentHeaders,
		Body:           cls.Body,
	}
	m.Plan = BuildPlan(m)

	return m, nil
}

// checkPathVariables requires every path-variable token to appear in the
// template and every placeholder to be bound.
func checkPathVariables(path string, params []*Parameter) error {
	placeholders := make(map[string]bool)
	for _, match := range placeholderRegex.FindAllStringSubmatch(path, -1) {
		placeholders[match[1]] = true
	}

	bound := make(map[string]bool)
	for _, p := range params {
		if p.Role != RolePathVariable {
			continue
		}
		if !placeholders[p.Key] {
			return fmt.Errorf("path variable %q is not in path %q", p.Key, path)
		}
		bound[p.Key] = true
	}

	for _, match := range placeholderRegex.FindAllStringSubmatch(path, -1) {
		if !bound[match[1]] {
			return fmt.Errorf("path placeholder {%s} has no path variable", match[1])
		}
	}

	return nil
}

func isVerb(v string) bool {
	for _, verb := range Verbs {
		if v == verb {
			return true
		}
	}
	return false
}

// Placeholders returns the placeholder tokens of a path template in order
func Placeholders(path string) []string {
	var out []string
	for _, match := range placeholderRegex.FindAllStringSubmatch(path, -1) {
		out = append(out, match[1])
	}
	return out
}
