package main

import "fmt"

//delegen:delegated
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)

	//delegen:receiver mut
	Put(key K, value V)
}

type Map[K comparable, V any] struct{ m map[K]V }

func (s Map[K, V]) Get(key K) (V, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *Map[K, V]) Put(key K, value V) {
	if s.m == nil {
		s.m = make(map[K]V)
	}
	s.m[key] = value
}

type Ages map[string]int

func (a Ages) Get(key string) (int, bool) {
	v, ok := a[key]
	return v, ok
}

func (a *Ages) Put(key string, value int) {
	if *a == nil {
		*a = make(Ages)
	}
	(*a)[key] = value
}

//delegen:delegating
type Registry struct {
	names Map[int, string] `delegate:"Store"`
}

//delegen:delegating
type People struct {
	ages Ages `delegate:"DelegatedStore[string, int]"`
}

func main() {
	var r Registry
	r.Put(1, "one")
	v, ok := r.Get(1)
	fmt.Println(v, ok)

	var p People
	var s Store[string, int] = &p
	s.Put("ann", 30)
	a, _ := p.Get("ann")
	_, ok = p.Get("bob")
	fmt.Println(a, ok)
}
