package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
)

// defaultSelf is the name of the type parameter standing for the
// implementing type when no "//delegen:self" directive is given.
const defaultSelf = "Self"

// InterfaceSpec is what the comment directives of a delegated interface tell.
// It holds no reference to syntax or types so that it can be exported as an
// analysis fact and rebuilt against the types of an importing package.
type InterfaceSpec struct {
	Name  string
	Self  string   // the self type parameter; empty for the default
	Assoc []string // associated type parameters
	Items []ItemSpec
}

// ItemSpec is an element of an interface body. Embedded interfaces are not
// listed. They are found in the types.
type ItemSpec struct {
	Method   string   // method name; empty for an opaque item
	Receiver string   // receiver kind; empty for the default
	Const    bool     // the method is an associated constant
	Shared   []string // *Self parameters borrowed read-only
	Generate string   // a nested go:generate directive
	Opaque   string   // verbatim text of a non-interface embedded term
}

// InterfaceDecl is a type declaration of a delegated interface.
type InterfaceDecl struct {
	Obj  *types.TypeName
	Spec *ast.TypeSpec
	Doc  *ast.CommentGroup
}

// Delegated is a parsed delegated interface.
type Delegated struct {
	Spec      InterfaceSpec
	Interface *model.Interface
}

// FindInterfaces collects interface declarations marked with
// "//delegen:delegated" in declaration order.
func (p *Parser) FindInterfaces() []InterfaceDecl {
	var decls []InterfaceDecl
	for _, file := range p.Pkg().Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if _, ok := ts.Type.(*ast.InterfaceType); !ok {
					continue
				}

				doc := typeSpecDoc(gen, ts)
				if !hasCommentDirective(doc, dirDelegated) {
					continue
				}

				obj, ok := p.Pkg().TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				decls = append(decls, InterfaceDecl{Obj: obj, Spec: ts, Doc: doc})
			}
		}
	}
	return decls
}

// ParseInterfaces finds and parses all delegated interfaces in the package.
// An interface with errors is still returned. Its failing items carry no
// type so that the analysis reports them.
func (p *Parser) ParseInterfaces() ([]*Delegated, error) {
	var errs error
	var out []*Delegated

	for _, decl := range p.FindInterfaces() {
		spec, err := p.ParseInterfaceSpec(decl)
		errs = errors.Join(errs, err)

		iface, err := BuildInterface(p, decl.Obj, spec)
		errs = errors.Join(errs, err)
		if iface == nil {
			continue
		}

		out = append(out, &Delegated{Spec: spec, Interface: iface})
	}

	return out, errs
}

// ParseInterfaceSpec reads the comment directives of an interface
// declaration and its methods.
func (p *Parser) ParseInterfaceSpec(decl InterfaceDecl) (InterfaceSpec, error) {
	var errs error
	spec := InterfaceSpec{Name: decl.Obj.Name()}

	for _, d := range commentDirectives(decl.Doc) {
		switch d.Name {
		case dirDelegated:
		case dirSelf:
			spec.Self = d.Arg
		case dirAssoc:
			spec.Assoc = append(spec.Assoc, splitTopLevel(d.Arg)...)
		default:
			errs = errors.Join(errs, codefmt.Errorf(p, d, "unknown directive %q on interface %s", d.Name, spec.Name))
		}
	}

	it := decl.Spec.Type.(*ast.InterfaceType)
	for _, field := range it.Methods.List {
		if len(field.Names) == 0 {
			// Embedded interfaces are the super interfaces. Anything else,
			// such as a type set term, is passed through.
			typ := p.Pkg().TypesInfo.TypeOf(field.Type)
			if typ != nil {
				if _, ok := typ.Underlying().(*types.Interface); ok {
					continue
				}
			}
			spec.Items = append(spec.Items, ItemSpec{Opaque: codefmt.FormatExpr(p, field.Type)})
			continue
		}

		item := ItemSpec{Method: field.Names[0].Name}
		if gen, ok := goGenerateDirective(field.Doc); ok {
			item.Generate = gen
		}

		for _, d := range commentDirectives(field.Doc) {
			switch d.Name {
			case dirReceiver:
				if _, ok := model.ParseReceiverKind(d.Arg); !ok {
					errs = errors.Join(errs, codefmt.Errorf(p, d, "unknown receiver kind %q of %s; want one of %s", d.Arg, item.Method, receiverKindNames()))
					continue
				}
				item.Receiver = d.Arg
			case dirConst:
				item.Const = true
			case dirShared:
				item.Shared = append(item.Shared, splitTopLevel(d.Arg)...)
			default:
				errs = errors.Join(errs, codefmt.Errorf(p, d, "unknown directive %q on method %s", d.Name, item.Method))
			}
		}

		spec.Items = append(spec.Items, item)
	}

	return spec, errs
}

func receiverKindNames() string {
	names := make([]string, len(model.ReceiverKinds))
	for i, kind := range model.ReceiverKinds {
		names[i] = kind.String()
	}
	return strings.Join(names, ", ")
}

// BuildInterface builds the model of a delegated interface from its type and
// its spec. obj may be declared in another package than pkger.
func BuildInterface(pkger codefmt.Pkger, obj *types.TypeName, spec InterfaceSpec) (*model.Interface, error) {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, codefmt.Errorf(pkger, obj, "%s is not a defined interface type", obj.Name())
	}
	it, ok := named.Underlying().(*types.Interface)
	if !ok {
		return nil, codefmt.Errorf(pkger, obj, "%s is not an interface", obj.Name())
	}

	var errs error
	iface := &model.Interface{Name: obj.Name(), Obj: obj, Pos: obj.Pos()}

	// Type parameters and their roles
	selfName := spec.Self
	if selfName == "" {
		selfName = defaultSelf
	}
	found := map[string]bool{}
	tparams := named.TypeParams()
	for i := range tparams.Len() {
		tp := tparams.At(i)
		name := tp.Obj().Name()
		found[name] = true

		role := model.RoleGeneric
		switch {
		case name == selfName:
			role = model.RoleSelf
		case slices.Contains(spec.Assoc, name):
			role = model.RoleAssoc
		}
		iface.TypeParams = append(iface.TypeParams, model.TypeParam{TypeParam: tp, Role: role})
	}
	if spec.Self != "" && !found[spec.Self] {
		errs = errors.Join(errs, codefmt.Errorf(pkger, obj, "self type parameter %s is not a type parameter of %s", spec.Self, obj.Name()))
	}
	for _, name := range spec.Assoc {
		switch {
		case !found[name]:
			errs = errors.Join(errs, codefmt.Errorf(pkger, obj, "associated type %s is not a type parameter of %s", name, obj.Name()))
		case name == selfName:
			errs = errors.Join(errs, codefmt.Errorf(pkger, obj, "self type parameter %s cannot be an associated type", name))
		}
	}

	for i := range it.NumEmbeddeds() {
		typ := it.EmbeddedType(i)
		if _, ok := typ.Underlying().(*types.Interface); ok {
			iface.Supers = append(iface.Supers, typ)
		}
	}

	// Associated types come first. They are declared on the interface rather
	// than among its methods.
	for _, tp := range iface.Params(model.RoleAssoc) {
		iface.Items = append(iface.Items, &model.AssocType{
			Name:    tp.Obj().Name(),
			NamePos: tp.Obj().Pos(),
			Param:   tp,
		})
	}

	self := iface.Self()
	for _, item := range spec.Items {
		if item.Method == "" {
			iface.Items = append(iface.Items, &model.Opaque{Verbatim: item.Opaque, At: obj.Pos()})
			continue
		}

		m := explicitMethod(it, item.Method)
		if m == nil {
			errs = errors.Join(errs, codefmt.Errorf(pkger, obj, "%s has no method %s", obj.Name(), item.Method))
			continue
		}
		sig := m.Signature()

		switch {
		case item.Generate != "":
			iface.Items = append(iface.Items, &model.NestedGenerator{Name: m.Name(), NamePos: m.Pos(), Directive: item.Generate})

		case item.Const:
			c := &model.Const{Name: m.Name(), NamePos: m.Pos()}
			if sig.Params().Len() == 0 && sig.Results().Len() == 1 {
				c.Type = sig.Results().At(0).Type()
			}
			iface.Items = append(iface.Items, c)

		default:
			fn, err := buildFunc(pkger, m, item, self)
			errs = errors.Join(errs, err)
			iface.Items = append(iface.Items, fn)
		}
	}

	return iface, errs
}

func buildFunc(pkger codefmt.Pkger, m *types.Func, item ItemSpec, self *types.TypeParam) (*model.Func, error) {
	var errs error
	sig := m.Signature()
	fn := &model.Func{Name: m.Name(), NamePos: m.Pos(), Variadic: sig.Variadic()}

	kind := model.ReceiverRef
	if item.Receiver != "" {
		kind, _ = model.ParseReceiverKind(item.Receiver)
	}
	if kind != model.ReceiverNone {
		var typ types.Type
		if self != nil {
			typ = self
		}
		fn.Params = append(fn.Params, model.Param{Type: typ, Receiver: true, Borrow: receiverBorrow(kind)})
	}

	shared := map[string]bool{}
	for _, name := range item.Shared {
		shared[name] = true
	}

	for i := range sig.Params().Len() {
		v := sig.Params().At(i)
		param := model.Param{Name: v.Name(), Type: v.Type(), Borrow: model.BorrowOwned}
		if _, ok := types.Unalias(v.Type()).(*types.Pointer); ok {
			param.Borrow = model.BorrowExclusive
		}
		if shared[v.Name()] {
			param.Borrow = model.BorrowShared
			delete(shared, v.Name())
		}
		fn.Params = append(fn.Params, param)
	}
	for _, name := range item.Shared {
		if shared[name] {
			errs = errors.Join(errs, codefmt.Errorf(pkger, m, "shared parameter %s is not a parameter of %s", name, m.Name()))
		}
	}

	for i := range sig.Results().Len() {
		v := sig.Results().At(i)
		fn.Results = append(fn.Results, model.Param{Name: v.Name(), Type: v.Type()})
	}

	return fn, errs
}

func receiverBorrow(kind model.ReceiverKind) model.Borrow {
	switch kind {
	case model.ReceiverRef:
		return model.BorrowShared
	case model.ReceiverMutRef:
		return model.BorrowExclusive
	}
	return model.BorrowOwned
}

func explicitMethod(it *types.Interface, name string) *types.Func {
	for i := range it.NumExplicitMethods() {
		if m := it.ExplicitMethod(i); m.Name() == name {
			return m
		}
	}
	return nil
}
