package main

import "fmt"

//delegen:delegated
type Namer interface {
	Name() string
}

type Tag string

func (t Tag) Name() string { return "#" + string(t) }

type Item struct {
	id  int
	tag Tag
}

func main() {
	it := Item{id: 1, tag: "go"}
	fmt.Println(it.Name(), describe(it))
}
