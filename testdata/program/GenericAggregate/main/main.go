package main

import "fmt"

//delegen:delegated
type Greeter interface {
	Greet(name string) string
}

type English struct{}

func (English) Greet(name string) string { return "Hello, " + name }

//delegen:delegating
type Tagged[T any] struct {
	English `delegate:"Greeter"`
	tag     T
}

func main() {
	t := Tagged[int]{tag: 5}
	var g Greeter = t
	fmt.Println(g.Greet("Ann"), t.tag)
}
