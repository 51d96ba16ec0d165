//go:build delegen

package wiredirective

import "github.com/sublee/delegen"

//delegen:delegated
type Greeter interface { // want Greeter:"delegated Greeter"
	Greet() string
}

type English struct{}

func (English) Greet() string { return "hello" }

type Box struct {
	inner English
	n     int
}

var field = "inner"

var (
	_ = delegen.Wire[Box, English]("inner", "Greeter")
	_ = delegen.Wire[Box, English](0, "DelegatedGreeter")
	_ = delegen.Wire[Box, English]("outer", "Greeter") // want `Box has no field outer`
	_ = delegen.Wire[Box, English](5, "Greeter")       // want `Box has no field at 5; it has 2 fields`
	_ = delegen.Wire[Box, English]("n", "Greeter")     // want `field n of Box has type int, not English`
	_ = delegen.Wire[Box, English](field, "Greeter")   // want `field must be a string or an integer literal`
	_ = delegen.Wire[int, int]("n", "Greeter")         // want `aggregate int must be a struct type declared in package wiredirective`
)

var wired = delegen.Wire[Box, English]("inner", "Greeter") // want `Wire must be assigned to the blank identifier at package level`

func init() {
	_ = delegen.Wire[Box, English]("inner", "Greeter") // want `Wire must be assigned to the blank identifier at package level`
}
