package main

import "fmt"

//delegen:delegated
type Named interface {
	Name() string
}

//delegen:delegated
type Sized interface {
	Size() int
}

//delegen:delegated
type Animal interface {
	Named
	Sound() string
}

type Dog struct{}

func (Dog) Name() string  { return "dog" }
func (Dog) Sound() string { return "woof" }

type Kennel []string

func (k Kennel) Size() int { return len(k) }

//delegen:delegating
type Farm struct {
	pet  Dog    `delegate:"Named,Animal"`
	pens Kennel `delegate:"Sized"`
}

func main() {
	f := Farm{pens: Kennel{"a", "b"}}
	var a Animal = f
	var s Sized = &f
	fmt.Println(a.Name(), a.Sound(), s.Size())
}
