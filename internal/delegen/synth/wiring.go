package synth

import (
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
)

// WriteFieldWiring writes the three accessors of a wired field, which
// implement the access interface of the wiring for the aggregate:
//
//	func (b Box) DelegateI() D { return b.f }
//	func (b *Box) DelegateIRef() *D { return &b.f }
//	func (b *Box) DelegateIRefMut() *D { return &b.f }
//
// Only the wired field is reached. Other fields of the aggregate are left
// alone.
func WriteFieldWiring(w *codefmt.Writer, wiring *model.Wiring) {
	w = w.Fork()
	acc := wiring.Interface.Accessors()
	recvType := receiverType(wiring.Aggregate)
	delegate := w.Type(wiring.Delegate(), nil)
	reserveImports(w)
	recv := receiverName(w, wiring.Aggregate)
	sel := recv + "." + wiring.Field.Name

	w.Printf("// %s moves the %s field out.\n", acc.Value, wiring.Field.Name)
	w.Printf("func (%s %s) %s() %s {\n", recv, recvType, acc.Value, delegate)
	w.Printf("return %s\n", sel)
	w.Printf("}\n\n")

	w.Printf("// %s borrows the %s field read-only.\n", acc.Ref, wiring.Field.Name)
	w.Printf("func (%s *%s) %s() *%s {\n", recv, recvType, acc.Ref, delegate)
	w.Printf("return &%s\n", sel)
	w.Printf("}\n\n")

	w.Printf("// %s borrows the %s field mutably.\n", acc.MutRef, wiring.Field.Name)
	w.Printf("func (%s *%s) %s() *%s {\n", recv, recvType, acc.MutRef, delegate)
	w.Printf("return &%s\n", sel)
	w.Printf("}\n")
}

// receiverType returns the receiver type of methods on the aggregate. A
// generic aggregate is instantiated with its own type parameters.
func receiverType(agg *types.TypeName) string {
	named, ok := agg.Type().(*types.Named)
	if !ok || named.TypeParams().Len() == 0 {
		return agg.Name()
	}

	tparams := named.TypeParams()
	names := make([]string, tparams.Len())
	for i := range tparams.Len() {
		names[i] = tparams.At(i).Obj().Name()
	}
	return agg.Name() + "[" + strings.Join(names, ", ") + "]"
}

// receiverName returns a unique name for the receiver of methods on the
// aggregate. It is the lowercased first letter of the aggregate name.
func receiverName(w *codefmt.Writer, agg *types.TypeName) string {
	if named, ok := agg.Type().(*types.Named); ok {
		for i := range named.TypeParams().Len() {
			w.Reserve(named.TypeParams().At(i).Obj().Name())
		}
	}

	r, _ := utf8.DecodeRuneInString(agg.Name())
	if !unicode.IsLetter(r) {
		r = 'x'
	}
	return w.Name(string(unicode.ToLower(r)))
}

// reserveImports keeps local names from shadowing the packages imported by
// the types rendered so far.
func reserveImports(w *codefmt.Writer) {
	for alias := range w.Imports() {
		w.Reserve(alias)
	}
}

// isGeneric reports whether the aggregate has type parameters.
func isGeneric(agg *types.TypeName) bool {
	named, ok := agg.Type().(*types.Named)
	return ok && named.TypeParams().Len() != 0
}

// needsDeref reports whether a method of the delegate cannot be called on a
// pointer to it without dereferencing. Only a defined type which is neither a
// pointer nor an interface has methods on its pointer.
func needsDeref(delegate types.Type) bool {
	named, ok := types.Unalias(delegate).(*types.Named)
	if !ok {
		return true
	}
	switch named.Underlying().(type) {
	case *types.Pointer, *types.Interface:
		return true
	}
	return false
}
