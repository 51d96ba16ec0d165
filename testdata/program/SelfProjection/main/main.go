package main

import (
	"fmt"
	"slices"
)

//delegen:delegated
type Merger[Self any] interface {
	//delegen:receiver mut
	Merge(other *Self)

	//delegen:shared other
	Equal(other *Self) bool

	Combine(other Self) int
}

type Set struct{ items []string }

func (s *Set) Merge(other *Set)     { s.items = append(s.items, other.items...) }
func (s Set) Equal(other *Set) bool { return slices.Equal(s.items, other.items) }
func (s Set) Combine(other Set) int { return len(s.items) + len(other.items) }

//delegen:delegating
type Team struct {
	name    string
	members Set `delegate:"Merger"`
}

func main() {
	a := Team{name: "a", members: Set{items: []string{"x"}}}
	b := Team{name: "b", members: Set{items: []string{"y", "z"}}}
	fmt.Println(a.Equal(&b), a.Combine(b))

	a.Merge(&b)
	fmt.Println(a.members.items, a.name)

	c := Team{members: Set{items: []string{"x", "y", "z"}}}
	fmt.Println(a.Equal(&c))

	var m Merger[Team] = &a
	m.Merge(&c)
	fmt.Println(len(a.members.items))
}
