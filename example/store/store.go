// Package store declares delegated interfaces of key-value stores.
package store

import "maps"

// Store is a key-value store.
//
//delegen:delegated
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)

	//delegen:receiver mut
	Put(key K, value V)

	Len() int
}

// Cloner copies a store.
//
//delegen:delegated
type Cloner[Self any] interface {
	//delegen:receiver mut
	CopyFrom(other *Self)
}

// Map is a Store backed by a Go map.
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

func (s Map[K, V]) Len() int { return len(s.m) }

func (s *Map[K, V]) CopyFrom(other *Map[K, V]) { s.m = maps.Clone(other.m) }
