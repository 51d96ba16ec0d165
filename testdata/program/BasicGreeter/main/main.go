package main

import "fmt"

//delegen:delegated
type Greeter interface {
	Greet(name string) string

	//delegen:receiver mut
	Rename(name string)
}

type English struct{ name string }

func (e English) Greet(name string) string { return "Hello, " + name + "! I am " + e.name + "." }
func (e *English) Rename(name string)      { e.name = name }

//delegen:delegating
type Box struct {
	inner English `delegate:"Greeter"`
	count int
}

func main() {
	b := &Box{inner: English{name: "Ann"}, count: 7}
	fmt.Println(b.Greet("Bob"))
	b.Rename("Cid")
	fmt.Println(b.Greet("Bob"))
	fmt.Println(b.count)

	var g Greeter = b
	fmt.Println(g.Greet("Dan"))

	var d DelegatedGreeter[English] = b
	fmt.Println(d.DelegateGreeter().name)
}
