package synth

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
)

// WriteForwarding writes the implementation of the analyzed interface for the
// aggregate of the wiring. Every item is rendered independently: a function
// calls the same function on the delegate, a constant is read from the
// delegate type, and a failed item is replaced by an error marker.
//
// It is followed by compile-time assertions that the aggregate implements the
// access interface and the interface itself. The assertions are omitted for a
// generic aggregate since it cannot be referred to without instantiation.
func WriteForwarding(w *codefmt.Writer, a *Analysis, wiring *model.Wiring) {
	f := newForwarder(w, a, wiring)

	for i, e := range a.Entries {
		if i != 0 {
			w.Printf("\n")
		}
		f.writeEntry(e)
	}

	if !isGeneric(wiring.Aggregate) {
		w.Printf("\n")
		f.writeAssertions(a.Err() == nil)
	}
}

type forwarder struct {
	w      *codefmt.Writer
	iface  *model.Interface
	wiring *model.Wiring
	acc    model.Accessors

	recvType string
	delegate string
	deref    bool

	// static is the type whose zero value receives calls without a
	// receiver. It is the pointed type of a pointer delegate so that the
	// zero value is never a nil pointer.
	static string
	subst    codefmt.Subst
}

func newForwarder(w *codefmt.Writer, a *Analysis, wiring *model.Wiring) *forwarder {
	iface := a.Interface
	f := &forwarder{
		w:        w,
		iface:    iface,
		wiring:   wiring,
		acc:      iface.Accessors(),
		recvType: receiverType(wiring.Aggregate),
		delegate: w.Type(wiring.Delegate(), nil),
		deref:    needsDeref(wiring.Delegate()),
		subst:    codefmt.Subst{},
	}

	f.static = f.delegate
	if ptr, ok := types.Unalias(wiring.Delegate()).(*types.Pointer); ok && !needsDeref(ptr.Elem()) {
		f.static = w.Type(ptr.Elem(), nil)
	}

	if self := iface.Self(); self != nil {
		f.subst[self] = f.recvType
	}
	for tp, arg := range wiring.TypeArgs {
		f.subst[tp] = w.Type(arg, nil)
	}
	return f
}

func (f *forwarder) writeEntry(e Entry) {
	if e.Err != nil {
		f.writeMarker(e)
		return
	}

	switch item := e.Item.(type) {
	case *model.Func:
		f.writeFunc(item, e)
	case *model.Const:
		f.writeConst(item)
	case *model.AssocType:
		f.w.Printf("// %s is projected from %s as %s.\n", item.Name, f.delegate, f.subst[item.Param])
	case *model.Opaque:
		f.w.Printf("// %s: %s\n", f.iface.Name, oneLine(item.Verbatim))
	}
}

// writeMarker writes an error marker in place of a failed item. The marker is
// a comment so that the other items still compile.
func (f *forwarder) writeMarker(e Entry) {
	f.w.Printf("// delegen: error: %s\n", oneLine(e.Err.Error()))
}

func (f *forwarder) writeFunc(fn *model.Func, e Entry) {
	w := f.w.Fork()

	// Render types before naming parameters so that parameter names never
	// shadow imported packages.
	args := fn.Args()
	argTypes := make([]string, len(args))
	for i, p := range args {
		argTypes[i] = w.Type(p.Type, f.subst)
	}
	if fn.Variadic && len(args) != 0 {
		last := len(args) - 1
		argTypes[last] = "..." + strings.TrimPrefix(argTypes[last], "[]")
	}
	results := make([]string, len(fn.Results))
	for i, p := range fn.Results {
		results[i] = w.Type(p.Type, f.subst)
	}
	reserveImports(w)

	argNames := make([]string, len(args))
	for i, p := range args {
		name := p.Name
		if name == "" || name == "_" {
			name = "arg"
		}
		argNames[i] = w.Name(name)
	}

	params := make([]string, len(args))
	for i := range args {
		params[i] = argNames[i] + " " + argTypes[i]
	}

	// Forwarded arguments
	fwd := make([]string, len(args))
	for i, name := range argNames {
		if i < len(e.Projections) && e.Projections[i].Projected {
			name += "." + f.acc.For(e.Projections[i].Kind) + "()"
		}
		fwd[i] = name
	}
	if fn.Variadic && len(fwd) != 0 {
		fwd[len(fwd)-1] += "..."
	}

	var recv, callee, moved string
	switch e.Receiver {
	case model.ReceiverNone:
		recv = f.recvType
	case model.ReceiverValue:
		name := receiverName(w, f.wiring.Aggregate)
		recv = name + " " + f.recvType
		moved = name + "." + f.acc.Value + "()"
	case model.ReceiverRef, model.ReceiverMutRef:
		name := receiverName(w, f.wiring.Aggregate)
		accessor := f.acc.For(e.Receiver)
		if e.Receiver == model.ReceiverRef {
			recv = name + " " + f.recvType
		} else {
			recv = name + " *" + f.recvType
		}
		callee = name + "." + accessor + "()"
		if f.deref {
			callee = "(*" + callee + ")"
		}
	}

	w.Printf("// %s forwards to the %s field.\n", fn.Name, f.wiring.Field.Name)
	w.Printf("func (%s) %s(%s)%s {\n", recv, fn.Name, strings.Join(params, ", "), resultList(results))
	switch e.Receiver {
	case model.ReceiverNone:
		callee = w.Name("zero")
		w.Printf("var %s %s\n", callee, f.static)
	case model.ReceiverValue:
		// The moved delegate is bound to a variable to be addressable for
		// methods with a pointer receiver.
		callee = w.Name("delegate")
		w.Printf("%s := %s\n", callee, moved)
	}
	if len(results) != 0 {
		w.Printf("return ")
	}
	w.Printf("%s.%s(%s)\n", callee, fn.Name, strings.Join(fwd, ", "))
	w.Printf("}\n")
}

func (f *forwarder) writeConst(c *model.Const) {
	w := f.w.Fork()
	typ := w.Type(c.Type, f.subst)
	zero := w.Name("zero")

	w.Printf("// %s is the %s of %s.\n", c.Name, c.Name, f.delegate)
	w.Printf("func (%s) %s() %s {\n", f.recvType, c.Name, typ)
	w.Printf("var %s %s\n", zero, f.static)
	w.Printf("return %s.%s()\n", zero, c.Name)
	w.Printf("}\n")
}

// writeAssertions writes compile-time assertions of the implementations. The
// assertion of the interface itself is written only when all items are
// forwarded and the interface embeds no other interface, which the aggregate
// may implement by other wirings.
func (f *forwarder) writeAssertions(complete bool) {
	ptr := "(*" + f.recvType + ")(nil)"

	var accessArgs []string
	for _, tp := range f.iface.Params(model.RoleGeneric) {
		accessArgs = append(accessArgs, f.subst[tp])
	}
	accessArgs = append(accessArgs, f.delegate)
	access := f.qualified(f.iface.AccessName())
	f.w.Printf("var _ %s[%s] = %s\n", access, strings.Join(accessArgs, ", "), ptr)

	if !complete || len(f.iface.Supers) != 0 || f.hasOpaque() {
		return
	}

	iface := f.qualified(f.iface.Name)
	if len(f.iface.TypeParams) != 0 {
		args := make([]string, len(f.iface.TypeParams))
		for i, tp := range f.iface.TypeParams {
			args[i] = f.subst[tp.TypeParam]
		}
		iface += "[" + strings.Join(args, ", ") + "]"
	}
	f.w.Printf("var _ %s = %s\n", iface, ptr)
}

func (f *forwarder) hasOpaque() bool {
	for _, item := range f.iface.Items {
		if _, ok := item.(*model.Opaque); ok {
			return true
		}
	}
	return false
}

// qualified returns the name of a type declared in the package of the
// interface, qualified if it is another package.
func (f *forwarder) qualified(name string) string {
	pkg := f.iface.Pkg()
	if pkg == nil || pkg.Path() == f.w.Pkg().PkgPath {
		return name
	}
	return f.w.Import(pkg.Path(), pkg.Name()) + "." + name
}

func resultList(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	}
	return " (" + strings.Join(results, ", ") + ")"
}

// oneLine collapses whitespace so that s fits in a line comment.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Describe returns a short description of the wiring for logs.
func Describe(wiring *model.Wiring) string {
	return fmt.Sprintf("%s.%s -> %s", wiring.Aggregate.Name(), wiring.Field.Name, wiring.Interface.AccessName())
}
