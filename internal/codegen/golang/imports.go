package golang

import (
	"sort"
	"strconv"

	"github.com/okra-platform/faux/internal/codegen/writer"
	"github.com/okra-platform/faux/internal/contract"
)

// importSet tracks the packages a generated file refers to and the
// identifier each one is imported under.
type importSet struct {
	byPath map[string]string
	byName map[string]string
}

func newImportSet() *importSet {
	return &importSet{
		byPath: make(map[string]string),
		byName: make(map[string]string),
	}
}

// add imports path and returns its identifier. Colliding names get a
// numeric suffix.
func (s *importSet) add(path, name string) string {
	if ident, ok := s.byPath[path]; ok {
		return ident
	}
	if name == "" {
		name = assumedName(path)
	}

	ident := name
	for i := 2; s.byName[ident] != ""; i++ {
		ident = name + strconv.Itoa(i)
	}

	s.byPath[path] = ident
	s.byName[ident] = path
	return ident
}

// addType imports every package referenced by t
func (s *importSet) addType(t contract.TypeRef) {
	t.Walk(func(r contract.TypeRef) {
		if r.Kind == contract.KindNamed && r.Package != "" {
			s.add(r.Package, r.PackageName)
		}
	})
}

// qualifier renders local types unqualified and imported ones with their
// identifier.
func (s *importSet) qualifier(pkg, pkgName string) string {
	if pkg == "" {
		return ""
	}
	if ident, ok := s.byPath[pkg]; ok {
		return ident
	}
	return contract.PackageQualifier(pkg, pkgName)
}

// names returns every imported identifier
func (s *importSet) names() []string {
	out := make([]string, 0, len(s.byName))
	for name := range s.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *importSet) write(w *writer.Writer) {
	if len(s.byPath) == 0 {
		return
	}

	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	w.WriteLine("import (")
	w.Indent()
	for _, p := range paths {
		ident := s.byPath[p]
		if ident == assumedName(p) {
			w.WriteLinef("%q", p)
		} else {
			w.WriteLinef("%s %q", ident, p)
		}
	}
	w.Dedent()
	w.WriteLine(")")
	w.BlankLine()
}
