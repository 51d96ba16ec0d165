package parse

import (
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
	"github.com/sublee/delegen/internal/lcs"
	"github.com/sublee/delegen/pkg/delegenerrors"
)

// Interfaces looks up delegated interfaces by their package path and name.
type Interfaces interface {
	Lookup(pkgPath, name string) (*model.Interface, bool)
}

// NameLister is an [Interfaces] which also lists the names of the delegated
// interfaces it knows in a package. The names are used to suggest a target
// for a misspelled one.
type NameLister interface {
	Names(pkgPath string) []string
}

// ResolveTarget resolves the target of a binding to a delegated interface
// and completes the type arguments of the wiring.
//
// A target names the interface or its access interface, optionally
// qualified by an imported package name, and optionally with the type
// arguments of the generic type parameters:
//
//	Greeter
//	DelegatedGreeter
//	store.Store[string]
//
// Omitted type arguments and associated types are inferred from the methods
// of the field type.
func (p *Parser) ResolveTarget(b Binding, ifaces Interfaces) (*model.Wiring, error) {
	malformed := func(format string, args ...any) error {
		return codefmt.KindErrorf(p, delegenerrors.ErrMalformedWiringArguments, b, format, args...)
	}

	expr, err := parser.ParseExpr(b.Target.Expr)
	if err != nil {
		return nil, malformed("cannot parse target %q", b.Target.Expr)
	}

	var argExprs []ast.Expr
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr, argExprs = x.X, []ast.Expr{x.Index}
	case *ast.IndexListExpr:
		expr, argExprs = x.X, x.Indices
	}

	pkgPath := p.Pkg().PkgPath
	var name string
	switch x := expr.(type) {
	case *ast.Ident:
		name = x.Name
	case *ast.SelectorExpr:
		qual, ok := x.X.(*ast.Ident)
		if !ok {
			return nil, malformed("cannot use %q as target", b.Target.Expr)
		}
		path, ok := p.importPath(b, qual.Name)
		if !ok {
			return nil, malformed("unknown package %s in target %q", qual.Name, b.Target.Expr)
		}
		pkgPath, name = path, x.Sel.Name
	default:
		return nil, malformed("cannot use %q as target", b.Target.Expr)
	}

	iface, ok := ifaces.Lookup(pkgPath, name)
	if !ok {
		if short, cut := strings.CutPrefix(name, model.AccessPrefix); cut && short != "" {
			iface, ok = ifaces.Lookup(pkgPath, short)
		}
	}
	if !ok {
		if lister, ok := ifaces.(NameLister); ok {
			short := strings.TrimPrefix(name, model.AccessPrefix)
			if suggest, ok := lcs.Closest(short, lister.Names(pkgPath)); ok {
				return nil, malformed("%s is not a delegated interface; did you mean %s?", types.ExprString(expr), suggest)
			}
		}
		return nil, malformed("%s is not a delegated interface", types.ExprString(expr))
	}

	generic := iface.Params(model.RoleGeneric)
	if len(argExprs) != 0 && len(argExprs) != len(generic) {
		return nil, malformed("%s needs %d type arguments but %d given", iface.AccessName(), len(generic), len(argExprs))
	}

	explicit := make(map[*types.TypeParam]types.Type)
	for i, argExpr := range argExprs {
		tv, err := types.Eval(p.Pkg().Fset, p.Pkg().Types, b.Target.At, types.ExprString(argExpr))
		if err != nil || !tv.IsType() {
			return nil, malformed("%s is not a type", types.ExprString(argExpr))
		}
		explicit[generic[i]] = tv.Type
	}

	typeArgs, err := Infer(iface, b.Field.Type, explicit)
	if err != nil {
		return nil, malformed("%s", err.Error())
	}

	return &model.Wiring{
		Aggregate: b.Aggregate,
		Field:     b.Field,
		Interface: iface,
		TypeArgs:  typeArgs,
		Origin:    b.Origin,
		At:        b.Target.At,
	}, nil
}

// importPath returns the path of the package imported by the name in the
// file of the binding.
func (p *Parser) importPath(b Binding, name string) (string, bool) {
	if scope := p.Pkg().Types.Scope().Innermost(b.Target.At); scope != nil {
		if _, obj := scope.LookupParent(name, b.Target.At); obj != nil {
			if pkgName, ok := obj.(*types.PkgName); ok {
				return pkgName.Imported().Path(), true
			}
		}
	}

	for _, imp := range p.Pkg().Types.Imports() {
		if imp.Name() == name {
			return imp.Path(), true
		}
	}
	return "", false
}
