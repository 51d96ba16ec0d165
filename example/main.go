package main

import (
	"fmt"
	"log/slog"
	"os"

	"example.com/delegenexample/store"
)

// Named describes a thing with a name.
//
//delegen:delegated
type Named interface {
	Name() string

	//delegen:receiver none
	Kind() string
}

type Label string

func (l Label) Name() string { return string(l) }
func (Label) Kind() string     { return "label" }

// Inventory counts items by name. Store and Cloner are delegated to the
// counts field, Named to the label field.
//
//delegen:delegating
type Inventory struct {
	label  Label                   `delegate:"Named"`
	counts store.Map[string, int] `delegate:"store.Store,store.Cloner"`
	log    *slog.Logger
}

// Audited wraps an inventory. Its fields are wired in wire.go.
type Audited struct {
	inner *Inventory
	owner string
}

func main() {
	inv := &Inventory{label: "fruits", log: slog.New(slog.NewTextHandler(os.Stdout, nil))}
	inv.Put("apple", 3)
	inv.Put("banana", 5)

	var backup Inventory
	backup.CopyFrom(inv)
	inv.Put("cherry", 7)

	n, _ := inv.Get("banana")
	fmt.Println(inv.Name(), inv.Kind(), inv.Len(), n)
	fmt.Println(backup.Len())

	audited := Audited{inner: inv, owner: "alice"}
	fmt.Println(audited.Name(), audited.owner)
}
