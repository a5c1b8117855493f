package gosource

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/okra-platform/faux/internal/contract"
)

const directivePrefix = "//faux:"

// argParam names the parameter a parameter-role directive applies to.
// It is consumed while extracting and never reaches an annotation.
const argParam = "param"

type directiveSpec struct {
	kind       contract.AnnotationKind
	positional []string
}

var directiveSpecs = map[string]directiveSpec{
	"client":          {contract.AnnotationClient, []string{contract.ArgName, contract.ArgRoute}},
	"http":            {contract.AnnotationHTTP, []string{contract.ArgMethod, contract.ArgPath}},
	"path":            {contract.AnnotationPath, []string{argParam, contract.ArgName}},
	"query":           {contract.AnnotationQuery, []string{argParam, contract.ArgName}},
	"header":          {contract.AnnotationHeader, []string{argParam, contract.ArgName}},
	"content-header":  {contract.AnnotationContentHeader, []string{argParam, contract.ArgName}},
	"response-header": {contract.AnnotationResponseHeader, []string{argParam, contract.ArgName}},
	"body":            {contract.AnnotationBody, []string{argParam, contract.ArgKind}},
	"return-body":     {contract.AnnotationReturnBody, []string{contract.ArgKind}},
	"return-header":   {contract.AnnotationReturnHeader, []string{contract.ArgName}},
}

// Directive is one parsed //faux: comment line
type Directive struct {
	Name       string
	Annotation contract.Annotation
}

// Param returns the parameter a parameter-role directive targets
func (d Directive) Param() string {
	return d.Annotation.Arg(argParam)
}

// ParseDirective parses the text of a single //faux: comment.
// ok is false when text is not a faux directive.
func ParseDirective(text, pos string) (d Directive, ok bool, err error) {
	rest, found := strings.CutPrefix(text, directivePrefix)
	if !found {
		return Directive{}, false, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Directive{}, true, fmt.Errorf("%s: empty directive", pos)
	}

	spec, known := directiveSpecs[fields[0]]
	if !known {
		return Directive{}, true, fmt.Errorf("%s: unknown directive %s%s", pos, directivePrefix, fields[0])
	}

	args := make(map[string]string)
	next := 0
	for _, f := range fields[1:] {
		if k, v, isPair := strings.Cut(f, "="); isPair && contains(spec.positional, k) {
			args[k] = v
			continue
		}
		// skip slots already filled by key=value
		for next < len(spec.positional) && args[spec.positional[next]] != "" {
			next++
		}
		if next >= len(spec.positional) {
			return Directive{}, true, fmt.Errorf("%s: too many arguments to %s%s", pos, directivePrefix, fields[0])
		}
		args[spec.positional[next]] = f
		next++
	}

	if contains(spec.positional, argParam) && args[argParam] == "" {
		return Directive{}, true, fmt.Errorf("%s: %s%s requires a parameter name", pos, directivePrefix, fields[0])
	}

	return Directive{
		Name:       fields[0],
		Annotation: contract.Annotation{Kind: spec.kind, Args: args, Pos: pos},
	}, true, nil
}

// parseDirectives returns the faux directives found in a comment group
func parseDirectives(fset *token.FileSet, cg *ast.CommentGroup) ([]Directive, error) {
	if cg == nil {
		return nil, nil
	}

	var out []Directive
	for _, c := range cg.List {
		d, ok, err := ParseDirective(c.Text, fset.Position(c.Pos()).String())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
