package delegenanalysis

import (
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/delegen/internal/codefmt"
	delegeninternal "github.com/sublee/delegen/internal/delegen"
	"github.com/sublee/delegen/internal/delegen/parse"
)

// Analyzer validates the usage of delegen in the package.
var Analyzer = &analysis.Analyzer{
	Name:      "delegen",
	Doc:       "linter for delegen usage",
	Run:       run,
	FactTypes: []analysis.Fact{new(InterfaceFact)},
}

// InterfaceFact is exported for every delegated interface so that packages
// importing it can wire their fields to it.
type InterfaceFact struct {
	Spec parse.InterfaceSpec
}

func (*InterfaceFact) AFact() {}

func (f *InterfaceFact) String() string { return "delegated " + f.Spec.Name }

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}

	dg, err := delegeninternal.New(pkg, delegeninternal.Options{
		Imported: imported(pass, pkg),
	})
	if err != nil {
		return nil, err
	}

	if err := dg.Build(); err != nil {
		// Unroll all errors and report them
		errs := []error{err}
		for len(errs) != 0 {
			err := errs[0]
			errs = errs[1:]

			if codeErr, ok := err.(*codefmt.CodeError); ok {
				pass.Report(analysis.Diagnostic{
					Pos:     codeErr.Pos(),
					End:     codeErr.End(),
					Message: codeErr.Unwrap().Error(),
				})
				continue
			}

			if u, ok := err.(interface{ Unwrap() []error }); ok {
				errs = append(errs, u.Unwrap()...)
			}
		}
	}

	for _, d := range dg.Interfaces() {
		pass.ExportObjectFact(d.Interface.Obj, &InterfaceFact{Spec: d.Spec})
	}

	return nil, nil
}

// imported finds delegated interfaces of the imported packages from their
// facts. The interfaces are rebuilt against the types seen by this package.
func imported(pass *analysis.Pass, pkg *packages.Package) func(pkgPath, name string) (*parse.Delegated, bool) {
	return func(pkgPath, name string) (*parse.Delegated, bool) {
		for _, imp := range pass.Pkg.Imports() {
			if imp.Path() != pkgPath {
				continue
			}

			obj, ok := imp.Scope().Lookup(name).(*types.TypeName)
			if !ok {
				return nil, false
			}

			var fact InterfaceFact
			if !pass.ImportObjectFact(obj, &fact) {
				return nil, false
			}

			iface, err := parse.BuildInterface(codefmt.Pkg(pkg), obj, fact.Spec)
			if err != nil {
				return nil, false
			}
			return &parse.Delegated{Spec: fact.Spec, Interface: iface}, true
		}
		return nil, false
	}
}
