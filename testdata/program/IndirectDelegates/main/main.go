package main

import "fmt"

//delegen:delegated
type Greeter interface {
	Greet(name string) string

	//delegen:receiver mut
	Rename(name string)
}

//delegen:delegated
type Lingual interface {
	//delegen:receiver none
	Language() string
}

type English struct{ name string }

func (e *English) Greet(name string) string { return "Hello, " + name + "! I am " + e.name + "." }
func (e *English) Rename(name string)      { e.name = name }
func (*English) Language() string          { return "en" }

// Shared delegates to a pointer. Copies share the delegate.
//
//delegen:delegating
type Shared struct {
	g *English `delegate:"Greeter,Lingual"`
}

// Proxy delegates to an interface value.
//
//delegen:delegating
type Proxy struct {
	target Greeter `delegate:"Greeter"`
}

func main() {
	e := &English{name: "Ann"}
	a := Shared{g: e}
	b := Shared{g: e}
	a.Rename("Cid")
	fmt.Println(b.Greet("Bob"))
	fmt.Println(a.Language())

	p := &Proxy{target: &a}
	p.Rename("Dee")
	fmt.Println(e.name)
	fmt.Println(p.Greet("Eve"))
}
