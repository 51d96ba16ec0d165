package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
	"github.com/sublee/delegen/pkg/delegenerrors"
)

// TagKey is the struct tag key listing the targets of a field.
const TagKey = "delegate"

// Binding is a field of an aggregate bound to a target interface by a struct
// tag or a [delegen.Wire] directive. The target is not resolved yet.
type Binding struct {
	Aggregate *types.TypeName
	Field     model.Field
	Target    model.Target
	Origin    model.Origin
}

func (b Binding) Pos() token.Pos { return b.Target.At }

// ParseAggregates finds structs marked with "//delegen:delegating" and
// collects the targets in the "delegate" tags of their fields. A tag on a
// struct without the mark is an error.
func (p *Parser) ParseAggregates() ([]*model.Aggregate, error) {
	var errs error
	var aggs []*model.Aggregate

	for _, file := range p.Pkg().Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}

				obj, ok := p.Pkg().TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}

				marked := hasCommentDirective(typeSpecDoc(gen, ts), dirDelegating)
				agg, err := p.parseAggregate(obj, st, marked)
				errs = errors.Join(errs, err)
				if agg != nil {
					aggs = append(aggs, agg)
				}
			}
		}
	}

	return aggs, errs
}

func (p *Parser) parseAggregate(obj *types.TypeName, st *ast.StructType, marked bool) (*model.Aggregate, error) {
	typ, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}

	var errs error
	agg := &model.Aggregate{Obj: obj}

	index := 0
	for _, field := range st.Fields.List {
		n := len(field.Names)
		if n == 0 {
			// Embedded field
			n = 1
		}

		var targets []model.Target
		if field.Tag != nil {
			tag, _ := strconv.Unquote(field.Tag.Value)
			if value, ok := reflect.StructTag(tag).Lookup(TagKey); ok {
				var err error
				if marked {
					targets, err = p.parseTargets(field.Tag, value)
				} else {
					err = codefmt.KindErrorf(p, delegenerrors.ErrMalformedWiringArguments, field.Tag,
						"%s tag on a field of %s which is not marked with %s%s", TagKey, obj.Name(), directivePrefix, dirDelegating)
				}
				errs = errors.Join(errs, err)
			}
		}

		for i := range n {
			if index+i >= typ.NumFields() {
				break
			}
			v := typ.Field(index + i)
			agg.Fields = append(agg.Fields, model.Field{
				Name:     v.Name(),
				Index:    index + i,
				Type:     v.Type(),
				Embedded: v.Embedded(),
				Targets:  targets,
			})
		}
		index += n
	}

	if !marked {
		return nil, errs
	}
	return agg, errs
}

// parseTargets splits the value of a "delegate" tag into targets. Every
// target is positioned at the tag.
func (p *Parser) parseTargets(tag *ast.BasicLit, value string) ([]model.Target, error) {
	exprs := splitTopLevel(value)
	if len(exprs) == 0 {
		return nil, codefmt.KindErrorf(p, delegenerrors.ErrMalformedWiringArguments, tag, "%s tag lists no interface", TagKey)
	}

	targets := make([]model.Target, len(exprs))
	for i, expr := range exprs {
		targets[i] = model.Target{Expr: expr, At: tag.Pos()}
	}
	return targets, nil
}

// Bindings flattens the targets of the aggregate fields.
func Bindings(aggs []*model.Aggregate) []Binding {
	var bindings []Binding
	for _, agg := range aggs {
		for _, field := range agg.Fields {
			for _, target := range field.Targets {
				bindings = append(bindings, Binding{
					Aggregate: agg.Obj,
					Field:     field,
					Target:    target,
					Origin:    model.OriginTag,
				})
			}
		}
	}
	return bindings
}
