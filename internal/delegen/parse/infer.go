package parse

import (
	"fmt"
	"go/types"
	"maps"
	"strings"

	"github.com/sublee/delegen/internal/delegen/model"
)

// Infer completes the type arguments of a wiring. Every generic type
// parameter missing in explicit and every associated type is inferred by
// unifying the methods of the interface with the methods of the delegate
// type. The self type parameter is never bound.
func Infer(iface *model.Interface, delegate types.Type, explicit map[*types.TypeParam]types.Type) (map[*types.TypeParam]types.Type, error) {
	bindings := maps.Clone(explicit)
	if bindings == nil {
		bindings = make(map[*types.TypeParam]types.Type)
	}

	u := unifier{targets: make(map[*types.TypeParam]bool), bindings: bindings}
	for _, tp := range iface.TypeParams {
		if tp.Role == model.RoleSelf {
			continue
		}
		if _, ok := bindings[tp.TypeParam]; !ok {
			u.targets[tp.TypeParam] = true
		}
	}
	if len(u.targets) == 0 {
		return bindings, nil
	}

	for _, item := range iface.Items {
		switch item := item.(type) {
		case *model.Func:
			sig, ok := delegateMethod(delegate, iface.Pkg(), item.Name)
			if !ok {
				continue
			}

			args := item.Args()
			if len(args) == sig.Params().Len() {
				for i, p := range args {
					u.unify(p.Type, sig.Params().At(i).Type())
				}
			}
			if len(item.Results) == sig.Results().Len() {
				for i, p := range item.Results {
					u.unify(p.Type, sig.Results().At(i).Type())
				}
			}

		case *model.Const:
			sig, ok := delegateMethod(delegate, iface.Pkg(), item.Name)
			if !ok || item.Type == nil || sig.Results().Len() != 1 {
				continue
			}
			u.unify(item.Type, sig.Results().At(0).Type())
		}
	}

	var missing []string
	for _, tp := range iface.TypeParams {
		if u.targets[tp.TypeParam] {
			if _, ok := bindings[tp.TypeParam]; !ok {
				missing = append(missing, tp.Obj().Name())
			}
		}
	}
	if len(missing) != 0 {
		return nil, fmt.Errorf("cannot infer %s of %s from %s", strings.Join(missing, ", "), iface.Name, types.TypeString(delegate, shortQualifier))
	}

	return bindings, nil
}

// delegateMethod looks up a method in the method set of a pointer to the
// delegate.
func delegateMethod(delegate types.Type, pkg *types.Package, name string) (*types.Signature, bool) {
	obj, _, _ := types.LookupFieldOrMethod(delegate, true, pkg, name)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, false
	}
	return fn.Signature(), true
}

func shortQualifier(pkg *types.Package) string { return pkg.Name() }

// unifier binds type parameters in a pattern type to the corresponding parts
// of an actual type. The first binding wins. Conflicting bindings are left
// for the compiler to report.
type unifier struct {
	targets  map[*types.TypeParam]bool
	bindings map[*types.TypeParam]types.Type
}

func (u unifier) unify(pattern, actual types.Type) {
	switch p := types.Unalias(pattern).(type) {
	case *types.TypeParam:
		if !u.targets[p] {
			return
		}
		if _, ok := u.bindings[p]; !ok {
			u.bindings[p] = actual
		}

	case *types.Pointer:
		if a, ok := types.Unalias(actual).(*types.Pointer); ok {
			u.unify(p.Elem(), a.Elem())
		}
	case *types.Slice:
		if a, ok := types.Unalias(actual).(*types.Slice); ok {
			u.unify(p.Elem(), a.Elem())
		}
	case *types.Array:
		if a, ok := types.Unalias(actual).(*types.Array); ok {
			u.unify(p.Elem(), a.Elem())
		}
	case *types.Chan:
		if a, ok := types.Unalias(actual).(*types.Chan); ok {
			u.unify(p.Elem(), a.Elem())
		}
	case *types.Map:
		if a, ok := types.Unalias(actual).(*types.Map); ok {
			u.unify(p.Key(), a.Key())
			u.unify(p.Elem(), a.Elem())
		}
	case *types.Signature:
		if a, ok := types.Unalias(actual).(*types.Signature); ok {
			u.unifyTuple(p.Params(), a.Params())
			u.unifyTuple(p.Results(), a.Results())
		}
	case *types.Named:
		a, ok := types.Unalias(actual).(*types.Named)
		if !ok || p.Origin() != a.Origin() {
			return
		}
		pargs, aargs := p.TypeArgs(), a.TypeArgs()
		if pargs.Len() != aargs.Len() {
			return
		}
		for i := range pargs.Len() {
			u.unify(pargs.At(i), aargs.At(i))
		}
	}
}

func (u unifier) unifyTuple(p, a *types.Tuple) {
	if p.Len() != a.Len() {
		return
	}
	for i := range p.Len() {
		u.unify(p.At(i).Type(), a.At(i).Type())
	}
}
