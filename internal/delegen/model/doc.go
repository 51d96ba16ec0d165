// Package model is the intermediate representation Delegen generates code
// from. The parser builds it from Go syntax and type information. The
// synthesizers in package synth never look at syntax again.
//
// An [Interface] is an interface marked as delegated. Its [Item]s are the
// things a forwarding implementation must provide. An [Aggregate] is a struct
// whose [Field]s are wired to interfaces, and a [Wiring] is one such
// (field, interface) pair.
package model
