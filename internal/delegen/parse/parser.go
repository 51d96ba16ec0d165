package parse

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"
)

// BuildTag is the build tag of files holding delegen directives. The
// generated file has the negated constraint.
const BuildTag = "delegen"

func IsDelegenImport(path string) bool {
	// Source code from "wire/internal/wire/parse.go".
	const vendorPart = "vendor/"
	if i := strings.LastIndex(path, vendorPart); i != -1 && (i == 0 || path[i-1] == '/') {
		path = path[i+len(vendorPart):]
	}
	return path == "github.com/sublee/delegen"
}

// Parser parses an AST of the underlying package to collect delegated
// interfaces and field wirings.
type Parser struct{ pkg *packages.Package }

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}
	return &Parser{pkg: pkg}, nil
}

// GetDirective returns the name of the delegen directive function if the call
// expression is a delegen directive. Otherwise, it returns false.
func (p *Parser) GetDirective(call *ast.CallExpr) (string, bool) {
	callee := typeutil.Callee(p.Pkg().TypesInfo, call)
	if callee == nil {
		return "", false
	}

	pkg := callee.Pkg()
	if pkg == nil {
		// Built-in functions like panic()
		return "", false
	}

	if !IsDelegenImport(pkg.Path()) {
		// Not delegen function
		return "", false
	}

	return callee.Name(), true
}

// IsDirective checks if the call expression is a delegen directive with the
// given name. If name is empty, it checks if the call is any delegen
// directive.
func (p *Parser) IsDirective(call *ast.CallExpr, name string) bool {
	calleeName, ok := p.GetDirective(call)
	if !ok {
		return false
	}

	if name == "" {
		// Any delegen directive
		return true
	}

	return calleeName == name
}

// DelegenGoFiles returns the Go files that have a "//go:build delegen"
// constraint.
func (p *Parser) DelegenGoFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.Pkg().Syntax {
		if hasGoBuildDelegen(file) {
			files = append(files, file)
		}
	}
	return files
}

// hasGoBuildDelegen checks if the file has a "//go:build delegen" constraint.
func hasGoBuildDelegen(file *ast.File) bool {
	ok := false
	for _, group := range file.Comments {
		for _, comment := range group.List {
			if constraint.IsGoBuild(comment.Text) {
				expr, err := constraint.Parse(comment.Text)
				if err != nil {
					continue
				}
				expr.Eval(func(tag string) bool {
					if tag == BuildTag {
						ok = true
					}
					return true
				})
			}
		}
	}
	return ok
}
