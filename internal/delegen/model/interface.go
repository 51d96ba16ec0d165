package model

import (
	"go/token"
	"go/types"
)

// AccessPrefix is prepended to an interface name to name its access
// interface.
const AccessPrefix = "Delegated"

// Interface is an interface marked as delegated.
type Interface struct {
	Name string
	Obj  *types.TypeName
	Pos  token.Pos

	// TypeParams are the type parameters of the interface in declaration
	// order. Their constraints play the role of where-clauses.
	TypeParams []TypeParam

	// Supers are the embedded interfaces. A delegate must satisfy them too.
	Supers []types.Type

	// Items are the elements of the interface body in declaration order.
	Items []Item
}

// Pkg returns the package where the interface is declared.
func (i *Interface) Pkg() *types.Package { return i.Obj.Pkg() }

// AccessName returns the name of the access interface.
func (i *Interface) AccessName() string { return AccessPrefix + i.Name }

// Accessors returns the names of the accessor methods of the access
// interface.
func (i *Interface) Accessors() Accessors {
	return Accessors{
		Value:  "Delegate" + i.Name,
		Ref:    "Delegate" + i.Name + "Ref",
		MutRef: "Delegate" + i.Name + "RefMut",
	}
}

// Self returns the type parameter standing for the implementing type. It
// returns nil if the interface does not refer to its implementing type.
func (i *Interface) Self() *types.TypeParam {
	for _, tp := range i.TypeParams {
		if tp.Role == RoleSelf {
			return tp.TypeParam
		}
	}
	return nil
}

// Params returns the type parameters having the given role in declaration
// order.
func (i *Interface) Params(role Role) []*types.TypeParam {
	var tps []*types.TypeParam
	for _, tp := range i.TypeParams {
		if tp.Role == role {
			tps = append(tps, tp.TypeParam)
		}
	}
	return tps
}

// Role is the role of a type parameter of an interface.
type Role int

const (
	// RoleGeneric is an ordinary type parameter. A wiring chooses it.
	RoleGeneric Role = iota

	// RoleSelf stands for the implementing type.
	RoleSelf

	// RoleAssoc is an associated type. It is projected from the delegate.
	RoleAssoc
)

// TypeParam is a type parameter of an interface.
type TypeParam struct {
	*types.TypeParam
	Role Role
}

// Accessors are the method names of an access interface.
type Accessors struct {
	Value  string // moves the delegate out
	Ref    string // borrows the delegate read-only
	MutRef string // borrows the delegate mutably
}

// For returns the accessor used for the receiver kind. It returns an empty
// string for [ReceiverNone].
func (a Accessors) For(kind ReceiverKind) string {
	switch kind {
	case ReceiverValue:
		return a.Value
	case ReceiverRef:
		return a.Ref
	case ReceiverMutRef:
		return a.MutRef
	}
	return ""
}

// Item is an element of an interface body. It is one of [*Func], [*Const],
// [*AssocType], [*NestedGenerator], or [*Opaque].
type Item interface {
	ItemName() string
	Pos() token.Pos
	item()
}

// Func is a method of an interface.
type Func struct {
	Name     string
	NamePos  token.Pos
	Params   []Param // the receiver comes first if any
	Results  []Param
	Variadic bool
}

func (f *Func) ItemName() string { return f.Name }
func (f *Func) Pos() token.Pos   { return f.NamePos }
func (*Func) item()              {}

// First returns the first parameter, or nil if there is no parameter.
func (f *Func) First() *Param {
	if len(f.Params) == 0 {
		return nil
	}
	return &f.Params[0]
}

// Args returns the parameters except the receiver.
func (f *Func) Args() []Param {
	if first := f.First(); first != nil && first.Receiver {
		return f.Params[1:]
	}
	return f.Params
}

// Param is a parameter or result of a function.
type Param struct {
	Name string
	Type types.Type

	// Receiver marks the parameter bound to the instance a function is called
	// on. Its Type is the self type.
	Receiver bool

	// Borrow tells how the parameter holds an instance of the self type.
	Borrow Borrow
}

// Const is an associated constant. Go renders it as a method without
// parameters returning the constant.
type Const struct {
	Name    string
	NamePos token.Pos
	Type    types.Type
}

func (c *Const) ItemName() string { return c.Name }
func (c *Const) Pos() token.Pos   { return c.NamePos }
func (*Const) item()              {}

// AssocType is an associated type, a type parameter projected from the
// delegate.
type AssocType struct {
	Name    string
	NamePos token.Pos
	Param   *types.TypeParam
}

func (a *AssocType) ItemName() string { return a.Name }
func (a *AssocType) Pos() token.Pos   { return a.NamePos }
func (*AssocType) item()              {}

// NestedGenerator is an item carrying its own code generation directive. It
// is always rejected.
type NestedGenerator struct {
	Name      string
	NamePos   token.Pos
	Directive string
}

func (n *NestedGenerator) ItemName() string { return n.Name }
func (n *NestedGenerator) Pos() token.Pos   { return n.NamePos }
func (*NestedGenerator) item()              {}

// Opaque is an item the generator cannot reason about, such as a type set
// term. It is passed through as is.
type Opaque struct {
	Verbatim string
	At       token.Pos
}

func (o *Opaque) ItemName() string { return o.Verbatim }
func (o *Opaque) Pos() token.Pos   { return o.At }
func (*Opaque) item()              {}
