package model

import (
	"go/token"
	"go/types"
)

// Aggregate is a struct whose fields are wired to access interfaces.
type Aggregate struct {
	Obj    *types.TypeName
	Fields []Field
}

// Name returns the name of the struct type.
func (a *Aggregate) Name() string { return a.Obj.Name() }

// Field is a field of an [Aggregate].
type Field struct {
	// Name is the name of the field. It is the type name for an embedded
	// field.
	Name string

	// Index is the position of the field in the struct.
	Index int

	Type     types.Type
	Embedded bool

	// Targets are the raw interface names the field is wired to.
	Targets []Target
}

// Target is an interface name as written by the user, such as
// "DelegatedGreeter" or "api.Store[string]".
type Target struct {
	Expr string
	At   token.Pos
}

func (t Target) Pos() token.Pos { return t.At }

// Wiring is a field of an aggregate wired to a delegated interface.
type Wiring struct {
	Aggregate *types.TypeName
	Field     Field
	Interface *Interface

	// TypeArgs holds the type of every generic and associated type parameter
	// of the interface. The self type parameter is never included.
	TypeArgs map[*types.TypeParam]types.Type

	Origin Origin
	At     token.Pos
}

// Origin tells where a wiring is declared.
type Origin int

const (
	// OriginTag is a "delegate" struct tag.
	OriginTag Origin = iota

	// OriginDirective is a delegen.Wire call.
	OriginDirective
)

func (w *Wiring) Pos() token.Pos { return w.At }

// Delegate returns the type of the wired field.
func (w *Wiring) Delegate() types.Type { return w.Field.Type }
