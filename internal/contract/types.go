package contract

import (
	"strconv"
	"strings"
)

// RuntimePackage is the import path of the package generated clients call into.
const RuntimePackage = "github.com/okra-platform/faux/fauxhttp"

// RuntimePackageName is the package name of RuntimePackage
const RuntimePackageName = "fauxhttp"

// TypeKind classifies a TypeRef
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindBasic
	KindNamed
	KindPointer
	KindSlice
	KindArray
	KindMap
	KindInterface
)

// TypeRef is a language-neutral reference to a declared type.
// The zero value is void.
type TypeRef struct {
	Kind TypeKind `json:"kind"`

	// Name is the basic or named type name
	Name string `json:"name,omitempty"`

	// Package is the import path of a named type. Empty for basic types and
	// for types local to the contract (IDL models).
	Package string `json:"package,omitempty"`

	// PackageName is the declared package name for Package
	PackageName string `json:"packageName,omitempty"`

	Elem *TypeRef  `json:"elem,omitempty"`
	Key  *TypeRef  `json:"key,omitempty"`
	Len  int64     `json:"len,omitempty"`
	Args []TypeRef `json:"args,omitempty"`

	// Embeds lists the named types this type embeds
	Embeds []TypeRef `json:"embeds,omitempty"`
}

// Void is the empty return shape
var Void = TypeRef{}

// Basic returns a builtin type reference
func Basic(name string) TypeRef {
	return TypeRef{Kind: KindBasic, Name: name}
}

// Named returns a reference to a named type declared in pkg.
// An empty pkg means the type is local to the contract.
func Named(pkg, pkgName, name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: KindNamed, Package: pkg, PackageName: pkgName, Name: name, Args: args}
}

// PointerTo returns *t
func PointerTo(t TypeRef) TypeRef {
	return TypeRef{Kind: KindPointer, Elem: &t}
}

// SliceOf returns []t
func SliceOf(t TypeRef) TypeRef {
	return TypeRef{Kind: KindSlice, Elem: &t}
}

// ArrayOf returns [n]t
func ArrayOf(n int64, t TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Len: n, Elem: &t}
}

// MapOf returns map[k]v
func MapOf(k, v TypeRef) TypeRef {
	return TypeRef{Kind: KindMap, Key: &k, Elem: &v}
}

// Any returns the empty interface
func Any() TypeRef {
	return TypeRef{Kind: KindInterface, Name: "any"}
}

// TaskType is the async completion wrapper without a value
func TaskType() TypeRef {
	return Named(RuntimePackage, RuntimePackageName, "Task")
}

// FutureType is the async completion wrapper carrying a value of type t
func FutureType(t TypeRef) TypeRef {
	f := Named(RuntimePackage, RuntimePackageName, "Future", t)
	f.Embeds = []TypeRef{PointerTo(TaskType())}
	return f
}

// IsVoid reports whether t is the void type
func (t TypeRef) IsVoid() bool {
	return t.Kind == KindVoid
}

// IsPointer reports whether t is a pointer type
func (t TypeRef) IsPointer() bool {
	return t.Kind == KindPointer
}

// Nillable reports whether a value of t can be nil
func (t TypeRef) Nillable() bool {
	switch t.Kind {
	case KindPointer, KindSlice, KindMap, KindInterface:
		return true
	}
	return false
}

// Deref strips any number of pointer indirections
func (t TypeRef) Deref() TypeRef {
	for t.Kind == KindPointer && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// Is reports whether t, ignoring pointers, is the named type pkg.name
func (t TypeRef) Is(pkg, name string) bool {
	d := t.Deref()
	return d.Kind == KindNamed && d.Package == pkg && d.Name == name
}

// DerivesFrom reports whether t is pkg.name or embeds it, directly or
// through another embedded type.
func (t TypeRef) DerivesFrom(pkg, name string) bool {
	if t.Is(pkg, name) {
		return true
	}
	for _, e := range t.Deref().Embeds {
		if e.DerivesFrom(pkg, name) {
			return true
		}
	}
	return false
}

// Equal reports structural equality, ignoring Embeds
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.Package != o.Package || t.Len != o.Len {
		return false
	}
	if !refEqual(t.Elem, o.Elem) || !refEqual(t.Key, o.Key) {
		return false
	}
	if len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func refEqual(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Qualifier returns the prefix used for a named type declared in pkg.
// An empty result renders the type unqualified.
type Qualifier func(pkg, pkgName string) string

// PackageQualifier qualifies every non-local type with its package name
func PackageQualifier(pkg, pkgName string) string {
	if pkg == "" {
		return ""
	}
	if pkgName != "" {
		return pkgName
	}
	return pkg[strings.LastIndex(pkg, "/")+1:]
}

// String renders t in Go syntax, qualified by package name
func (t TypeRef) String() string {
	return t.Format(PackageQualifier)
}

// Format renders t in Go syntax using q to qualify named types
func (t TypeRef) Format(q Qualifier) string {
	var sb strings.Builder
	t.format(&sb, q)
	return sb.String()
}

func (t TypeRef) format(sb *strings.Builder, q Qualifier) {
	switch t.Kind {
	case KindVoid:
		sb.WriteString("void")
	case KindBasic, KindInterface:
		sb.WriteString(t.Name)
	case KindNamed:
		if q != nil {
			if prefix := q(t.Package, t.PackageName); prefix != "" {
				sb.WriteString(prefix)
				sb.WriteByte('.')
			}
		}
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('[')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.format(sb, q)
			}
			sb.WriteByte(']')
		}
	case KindPointer:
		sb.WriteByte('*')
		t.Elem.format(sb, q)
	case KindSlice:
		sb.WriteString("[]")
		t.Elem.format(sb, q)
	case KindArray:
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatInt(t.Len, 10))
		sb.WriteByte(']')
		t.Elem.format(sb, q)
	case KindMap:
		sb.WriteString("map[")
		t.Key.format(sb, q)
		sb.WriteByte(']')
		t.Elem.format(sb, q)
	}
}

// Walk calls fn for t and every type nested inside it, including type
// arguments. Embeds are not visited.
func (t TypeRef) Walk(fn func(TypeRef)) {
	fn(t)
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
	if t.Key != nil {
		t.Key.Walk(fn)
	}
	for _, a := range t.Args {
		a.Walk(fn)
	}
}
