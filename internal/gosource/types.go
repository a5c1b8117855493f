package gosource

import (
	"go/types"

	"github.com/okra-platform/faux/internal/contract"
)

// typeConverter turns go/types types into contract type references.
// seen guards embed expansion of recursive types.
type typeConverter struct {
	seen map[*types.TypeName]bool
}

func newTypeConverter() *typeConverter {
	return &typeConverter{seen: make(map[*types.TypeName]bool)}
}

func (c *typeConverter) convert(t types.Type) contract.TypeRef {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return contract.Basic(t.Name())

	case *types.Named:
		return c.named(t)

	case *types.TypeParam:
		return contract.Named("", "", t.Obj().Name())

	case *types.Pointer:
		return contract.PointerTo(c.convert(t.Elem()))

	case *types.Slice:
		return contract.SliceOf(c.convert(t.Elem()))

	case *types.Array:
		return contract.ArrayOf(t.Len(), c.convert(t.Elem()))

	case *types.Map:
		return contract.MapOf(c.convert(t.Key()), c.convert(t.Elem()))

	case *types.Interface:
		if t.Empty() {
			return contract.Any()
		}
		return contract.TypeRef{Kind: contract.KindInterface, Name: types.TypeString(t, packageNameQualifier)}
	}

	// Struct literals, channels and funcs are passed through verbatim
	return contract.Basic(types.TypeString(t, packageNameQualifier))
}

func (c *typeConverter) named(t *types.Named) contract.TypeRef {
	obj := t.Obj()
	if obj.Pkg() == nil {
		// universe types such as error
		return contract.Basic(obj.Name())
	}

	var args []contract.TypeRef
	if targs := t.TypeArgs(); targs != nil {
		for i := 0; i < targs.Len(); i++ {
			args = append(args, c.convert(targs.At(i)))
		}
	}

	ref := contract.Named(obj.Pkg().Path(), obj.Pkg().Name(), obj.Name(), args...)

	if c.seen[obj] {
		return ref
	}
	c.seen[obj] = true
	defer delete(c.seen, obj)

	if st, ok := t.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if f := st.Field(i); f.Embedded() {
				ref.Embeds = append(ref.Embeds, c.convert(f.Type()))
			}
		}
	}

	return ref
}

func packageNameQualifier(p *types.Package) string {
	return p.Name()
}
