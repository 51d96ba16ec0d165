package parse

import (
	"errors"
	"go/ast"
	"strings"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/pkg/delegenerrors"
)

// Validate checks for usages outside expected paths. It collects all errors
// instead of stopping at the first error.
func (p *Parser) Validate() error {
	var errs error
	for _, file := range p.Pkg().Syntax {
		errs = errors.Join(errs, p.validateConstraint(file))
		errs = errors.Join(errs, p.validateWireUsages(file))
	}
	return errs
}

// validateConstraint checks if files importing "github.com/sublee/delegen"
// have "//go:build delegen" constraint.
func (p *Parser) validateConstraint(file *ast.File) error {
	// Find delegen import
	var delegenImport *ast.ImportSpec
	for _, imp := range file.Imports {
		if IsDelegenImport(strings.Trim(imp.Path.Value, `"`)) {
			delegenImport = imp
			break
		}
	}
	if delegenImport == nil {
		return nil // No delegen import found
	}

	// Check for "//go:build delegen" constraint
	if hasGoBuildDelegen(file) {
		return nil // Constraint satisfied
	}

	// This file imports delegen but has no "//go:build delegen" constraint
	return codefmt.Errorf(p, delegenImport, `file must have "//go:build delegen" constraint when importing delegen`)
}

// validateWireUsages checks that every [delegen.Wire] call is assigned to the
// blank identifier at package level. Any other call would remain in the
// generated file and keep the delegen import.
func (p *Parser) validateWireUsages(file *ast.File) error {
	allowed := make(map[*ast.CallExpr]bool)
	if hasGoBuildDelegen(file) {
		for call := range p.FindWires(file) {
			allowed[call] = true
		}
	}

	var errs error
	ast.Inspect(file, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}

		directive, ok := p.GetDirective(call)
		if !ok || allowed[call] {
			return true
		}

		err := codefmt.KindErrorf(p, delegenerrors.ErrMalformedWiringArguments, call,
			"%s must be assigned to the blank identifier at package level", directive)
		errs = errors.Join(errs, err)
		return false
	})
	return errs
}
