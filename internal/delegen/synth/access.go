package synth

import (
	"go/types"
	"strings"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
)

// delegateTypeName is the name of the type parameter standing for the
// delegate in an access interface.
const delegateTypeName = "DelegateType"

// WriteAccess writes the access interface of the analyzed interface:
//
//	type DelegatedI[G1 C1, ..., DelegateType S] interface {
//		DelegateI() DelegateType
//		DelegateIRef() *DelegateType
//		DelegateIRefMut() *DelegateType
//	}
//
// G1... are the generic type parameters of I with their constraints, and S
// bounds the delegate by the interfaces I embeds.
func WriteAccess(w *codefmt.Writer, a *Analysis) {
	iface := a.Interface
	acc := iface.Accessors()

	ns := codefmt.NS{}
	for _, tp := range iface.TypeParams {
		ns.Reserve(tp.Obj().Name())
	}
	delegateType := ns.Name(delegateTypeName)

	// The self type is the implementing type. Within the access interface, it
	// can only be the delegate.
	subst := codefmt.Subst{}
	if self := iface.Self(); self != nil {
		subst[self] = delegateType
	}

	var params []string
	for _, tp := range iface.Params(model.RoleGeneric) {
		params = append(params, tp.Obj().Name()+" "+w.Type(tp.Constraint(), subst))
	}
	params = append(params, delegateType+" "+accessBound(w, iface, subst))

	w.Printf("// %s is implemented by types which delegate %s to an inner value of\n", iface.AccessName(), iface.Name)
	w.Printf("// type %s. Wire a struct field with a %q tag to implement it.\n", delegateType, "delegate")
	w.Printf("type %s[%s] interface {\n", iface.AccessName(), strings.Join(params, ", "))
	w.Printf("// %s moves the delegate out.\n", acc.Value)
	w.Printf("%s() %s\n", acc.Value, delegateType)
	w.Printf("// %s borrows the delegate read-only.\n", acc.Ref)
	w.Printf("%s() *%s\n", acc.Ref, delegateType)
	w.Printf("// %s borrows the delegate mutably.\n", acc.MutRef)
	w.Printf("%s() *%s\n", acc.MutRef, delegateType)
	w.Printf("}\n")
}

// accessBound returns the constraint of the delegate type parameter. The
// delegate must implement the interfaces iface embeds. Embedded interfaces
// referring to an associated type cannot be written there and are left out.
func accessBound(w *codefmt.Writer, iface *model.Interface, subst codefmt.Subst) string {
	assocs := iface.Params(model.RoleAssoc)

	var bounds []string
	for _, super := range iface.Supers {
		if mentions(super, assocs) {
			continue
		}
		bounds = append(bounds, w.Type(super, subst))
	}

	switch len(bounds) {
	case 0:
		return "any"
	case 1:
		return bounds[0]
	}
	return "interface{ " + strings.Join(bounds, "; ") + " }"
}

// mentions reports whether typ refers to any of tps.
func mentions(typ types.Type, tps []*types.TypeParam) bool {
	switch t := types.Unalias(typ).(type) {
	case *types.TypeParam:
		for _, tp := range tps {
			if t == tp {
				return true
			}
		}
		return false
	case *types.Named:
		for i := range t.TypeArgs().Len() {
			if mentions(t.TypeArgs().At(i), tps) {
				return true
			}
		}
		return false
	case *types.Pointer:
		return mentions(t.Elem(), tps)
	case *types.Slice:
		return mentions(t.Elem(), tps)
	case *types.Array:
		return mentions(t.Elem(), tps)
	case *types.Chan:
		return mentions(t.Elem(), tps)
	case *types.Map:
		return mentions(t.Key(), tps) || mentions(t.Elem(), tps)
	case *types.Signature:
		return mentionsTuple(t.Params(), tps) || mentionsTuple(t.Results(), tps)
	case *types.Interface:
		for i := range t.NumEmbeddeds() {
			if mentions(t.EmbeddedType(i), tps) {
				return true
			}
		}
		for i := range t.NumExplicitMethods() {
			if mentions(t.ExplicitMethod(i).Type(), tps) {
				return true
			}
		}
		return false
	case *types.Union:
		for i := range t.Len() {
			if mentions(t.Term(i).Type(), tps) {
				return true
			}
		}
		return false
	case *types.Struct:
		for i := range t.NumFields() {
			if mentions(t.Field(i).Type(), tps) {
				return true
			}
		}
		return false
	}
	return false
}

func mentionsTuple(tuple *types.Tuple, tps []*types.TypeParam) bool {
	for i := range tuple.Len() {
		if mentions(tuple.At(i).Type(), tps) {
			return true
		}
	}
	return false
}
