package golang

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// exportedName upper-cases the first letter of name
func exportedName(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// unexportedName lower-cases the first letter of name
func unexportedName(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// packageName derives a Go package name from the last element of a namespace
func packageName(namespace string) string {
	if i := strings.LastIndexAny(namespace, "/."); i >= 0 {
		namespace = namespace[i+1:]
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(namespace) {
		if r == '_' || unicode.IsLetter(r) || (unicode.IsDigit(r) && sb.Len() > 0) {
			sb.WriteRune(r)
		}
	}

	if sb.Len() == 0 || token.IsKeyword(sb.String()) {
		return "fauxclients"
	}
	return sb.String()
}

// assumedName is the package name tooling guesses from an import path
func assumedName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	name = strings.TrimPrefix(name, "go-")
	if i := strings.IndexAny(name, ".-"); i >= 0 {
		name = name[:i]
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

// scope hands out identifiers that do not collide with anything already
// taken in it.
type scope struct {
	taken map[string]bool
}

func newScope(reserved ...string) *scope {
	s := &scope{taken: make(map[string]bool)}
	for _, r := range reserved {
		s.taken[r] = true
	}
	return s
}

// declare claims base, or base with a trailing underscore or number when
// base is a keyword or already taken.
func (s *scope) declare(base string) string {
	name := base
	if token.IsKeyword(name) || s.taken[name] {
		name = base + "_"
	}
	for i := 2; s.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	s.taken[name] = true
	return name
}

func (s *scope) clone() *scope {
	c := newScope()
	for k := range s.taken {
		c.taken[k] = true
	}
	return c
}
