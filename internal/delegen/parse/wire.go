package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"iter"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
	"github.com/sublee/delegen/pkg/delegenerrors"
)

// wireDirective is the name of [delegen.Wire].
const wireDirective = "Wire"

// FindWires iterates package-level [delegen.Wire] calls assigned to the blank
// identifier in the files tagged with "//go:build delegen". Other calls are
// rejected by [Parser.Validate].
func (p *Parser) FindWires(file *ast.File) iter.Seq[*ast.CallExpr] {
	return func(yield func(*ast.CallExpr) bool) {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}

			for _, spec := range gen.Specs {
				val := spec.(*ast.ValueSpec)
				if len(val.Names) != len(val.Values) {
					continue
				}

				for i, id := range val.Names {
					if id.Name != "_" {
						continue
					}

					call, ok := ast.Unparen(val.Values[i]).(*ast.CallExpr)
					if !ok || !p.IsDirective(call, wireDirective) {
						continue
					}

					if !yield(call) {
						return
					}
				}
			}
		}
	}
}

// ParseWires parses all [delegen.Wire] directives of the package.
func (p *Parser) ParseWires() ([]Binding, error) {
	var errs error
	var bindings []Binding

	for _, file := range p.DelegenGoFiles() {
		for call := range p.FindWires(file) {
			b, err := p.ParseWire(call)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			bindings = append(bindings, b)
		}
	}

	return bindings, errs
}

// ParseWire parses a [delegen.Wire] call:
//
//	delegen.Wire[Box, Name]("inner", "DelegatedGreeter")
//	delegen.Wire[Box, Name](0, "Greeter")
//
// The field is given by name or ordinal. Its type must be the second type
// argument.
func (p *Parser) ParseWire(call *ast.CallExpr) (Binding, error) {
	var b Binding
	malformed := func(poser codefmt.Poser, format string, args ...any) error {
		return codefmt.KindErrorf(p, delegenerrors.ErrMalformedWiringArguments, poser, format, args...)
	}

	id, ok := tailIdent(call.Fun)
	if !ok {
		return b, malformed(call, "cannot parse %c", call.Fun)
	}
	inst, ok := p.Pkg().TypesInfo.Instances[id]
	if !ok || inst.TypeArgs.Len() != 2 {
		return b, malformed(call, "%s needs type arguments [Aggregate, Field]", wireDirective)
	}

	aggType := inst.TypeArgs.At(0)
	named, ok := types.Unalias(aggType).(*types.Named)
	if !ok || named.Obj().Pkg() != p.Pkg().Types {
		return b, malformed(call.Fun, "aggregate %t must be a struct type declared in package %s", aggType, p.Pkg().Name)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return b, malformed(call.Fun, "aggregate %t must be a struct type declared in package %s", aggType, p.Pkg().Name)
	}
	b.Aggregate = named.Origin().Obj()

	if len(call.Args) != 2 {
		return b, malformed(call, "need 2 parameters")
	}
	fieldExpr, targetExpr := call.Args[0], call.Args[1]

	var v *types.Var
	if name, ok := evalStringLit(fieldExpr); ok {
		for i := range st.NumFields() {
			if st.Field(i).Name() == name {
				v = st.Field(i)
				b.Field.Index = i
				break
			}
		}
		if v == nil {
			return b, malformed(fieldExpr, "%t has no field %s", aggType, name)
		}
	} else if n, ok := evalIntLit(fieldExpr); ok {
		if n < 0 || n >= st.NumFields() {
			return b, malformed(fieldExpr, "%t has no field at %d; it has %d fields", aggType, n, st.NumFields())
		}
		v = st.Field(n)
		b.Field.Index = n
	} else {
		return b, malformed(fieldExpr, "field must be a string or an integer literal")
	}
	b.Field.Name = v.Name()
	b.Field.Type = v.Type()
	b.Field.Embedded = v.Embedded()

	if fieldType := inst.TypeArgs.At(1); !types.Identical(fieldType, v.Type()) {
		return b, malformed(fieldExpr, "field %s of %t has type %t, not %t", v.Name(), aggType, v.Type(), fieldType)
	}

	target, ok := evalStringLit(targetExpr)
	if !ok {
		return b, malformed(targetExpr, "target must be a string literal")
	}
	b.Target = model.Target{Expr: target, At: targetExpr.Pos()}
	b.Field.Targets = []model.Target{b.Target}
	b.Origin = model.OriginDirective

	return b, nil
}
