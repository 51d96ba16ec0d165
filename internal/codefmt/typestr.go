package codefmt

import (
	"fmt"
	"go/types"
	"strings"
)

// Subst maps type parameters to the code which replaces them.
type Subst map[*types.TypeParam]string

// writeType writes the Go code of typ. Type parameters found in subst are
// replaced. Struct and interface literals are written by [types.TypeString]
// and their type parameters are kept as is.
func writeType(b *strings.Builder, typ types.Type, subst Subst, qf types.Qualifier) {
	switch t := typ.(type) {
	case nil:
		b.WriteString("<nil>")

	case *types.TypeParam:
		if s, ok := subst[t]; ok {
			b.WriteString(s)
			return
		}
		b.WriteString(t.Obj().Name())

	case *types.Alias:
		writeTypeName(b, t.Obj(), qf)
		writeTypeArgs(b, t.TypeArgs(), subst, qf)

	case *types.Named:
		writeTypeName(b, t.Obj(), qf)
		writeTypeArgs(b, t.TypeArgs(), subst, qf)

	case *types.Pointer:
		b.WriteByte('*')
		writeType(b, t.Elem(), subst, qf)

	case *types.Slice:
		b.WriteString("[]")
		writeType(b, t.Elem(), subst, qf)

	case *types.Array:
		fmt.Fprintf(b, "[%d]", t.Len())
		writeType(b, t.Elem(), subst, qf)

	case *types.Map:
		b.WriteString("map[")
		writeType(b, t.Key(), subst, qf)
		b.WriteByte(']')
		writeType(b, t.Elem(), subst, qf)

	case *types.Chan:
		switch t.Dir() {
		case types.SendRecv:
			b.WriteString("chan ")
			if c, ok := t.Elem().(*types.Chan); ok && c.Dir() == types.RecvOnly {
				// chan (<-chan T) must keep the parentheses.
				b.WriteByte('(')
				writeType(b, t.Elem(), subst, qf)
				b.WriteByte(')')
				return
			}
		case types.SendOnly:
			b.WriteString("chan<- ")
		case types.RecvOnly:
			b.WriteString("<-chan ")
		}
		writeType(b, t.Elem(), subst, qf)

	case *types.Signature:
		b.WriteString("func")
		writeSignature(b, t, subst, qf)

	default:
		b.WriteString(types.TypeString(typ, qf))
	}
}

func writeTypeName(b *strings.Builder, obj *types.TypeName, qf types.Qualifier) {
	if pkg := obj.Pkg(); pkg != nil {
		if name := qf(pkg); name != "" {
			b.WriteString(name)
			b.WriteByte('.')
		}
	}
	b.WriteString(obj.Name())
}

func writeTypeArgs(b *strings.Builder, args *types.TypeList, subst Subst, qf types.Qualifier) {
	if args.Len() == 0 {
		return
	}
	b.WriteByte('[')
	for i := range args.Len() {
		if i != 0 {
			b.WriteString(", ")
		}
		writeType(b, args.At(i), subst, qf)
	}
	b.WriteByte(']')
}

// writeSignature writes the parameters and results of sig without the "func"
// keyword. Parameter names are omitted.
func writeSignature(b *strings.Builder, sig *types.Signature, subst Subst, qf types.Qualifier) {
	b.WriteByte('(')
	for i := range sig.Params().Len() {
		if i != 0 {
			b.WriteString(", ")
		}
		typ := sig.Params().At(i).Type()
		if sig.Variadic() && i == sig.Params().Len()-1 {
			b.WriteString("...")
			typ = typ.(*types.Slice).Elem()
		}
		writeType(b, typ, subst, qf)
	}
	b.WriteByte(')')

	switch sig.Results().Len() {
	case 0:
	case 1:
		b.WriteByte(' ')
		writeType(b, sig.Results().At(0).Type(), subst, qf)
	default:
		b.WriteString(" (")
		for i := range sig.Results().Len() {
			if i != 0 {
				b.WriteString(", ")
			}
			writeType(b, sig.Results().At(i).Type(), subst, qf)
		}
		b.WriteByte(')')
	}
}
