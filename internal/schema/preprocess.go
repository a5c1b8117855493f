package schema

import (
	"regexp"
	"strings"
)

// fauxDirectiveRegex matches @faux(...) at the start of a line.
// Allows one level of nested parentheses inside the arguments.
var fauxDirectiveRegex = regexp.MustCompile(`(?m)^@faux\s*\(((?:[^()]*|\([^)]*\))*)\)`)

// serviceStartRegex matches service declarations at the start of a line.
// Captures the name, optional type parameter list and any directives
// before the opening brace.
var serviceStartRegex = regexp.MustCompile(`(?m)^service\s+(\w+)\s*(?:<([^>]*)>)?([^{\n]*){`)

// PreprocessGraphQL rewrites `@faux(...)` and `service` blocks into valid GraphQL `type` definitions.
func PreprocessGraphQL(input string) string {
	// 1. Rewrite @faux(...) to a _Schema type; the field needs a type to be valid GraphQL
	input = fauxDirectiveRegex.ReplaceAllStringFunc(input, func(match string) string {
		args := fauxDirectiveRegex.FindStringSubmatch(match)[1]
		return `type _Schema {
  _: String @faux(` + args + `)
}`
	})

	// 2. Rewrite service blocks to type Service_X {; type parameters become a directive
	input = serviceStartRegex.ReplaceAllStringFunc(input, func(match string) string {
		groups := serviceStartRegex.FindStringSubmatch(match)
		serviceName, typeParams, directives := groups[1], groups[2], strings.TrimSpace(groups[3])

		out := `type Service_` + serviceName
		if directives != "" {
			out += " " + directives
		}
		if params := splitTypeParams(typeParams); len(params) > 0 {
			out += ` @typeParams(names: "` + strings.Join(params, ", ") + `")`
		}
		return out + ` {`
	})

	return input
}

func splitTypeParams(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
