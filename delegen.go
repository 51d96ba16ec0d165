// Package delegen provides directives for delegation code generation.
//
// Delegen eliminates the boilerplate of forwarding an interface to a field.
// Mark an interface as delegated once, then mark which field of a struct
// implements it, and the generator produces every forwarding method. Methods
// added to the interface later are forwarded by the next generation without
// touching the structs.
//
// Delegated interfaces are marked with a comment directive:
//
//	//delegen:delegated
//	type Greeter interface {
//		Greet(name string) string
//
//		//delegen:receiver mut
//		Rename(name string)
//	}
//
// Delegen declares an access interface for each of them. It has accessors to
// reach the field which implements the interface:
//
//	// generated: (simplified)
//	type DelegatedGreeter[DelegateType any] interface {
//		DelegateGreeter() DelegateType
//		DelegateGreeterRef() *DelegateType
//		DelegateGreeterRefMut() *DelegateType
//	}
//
// A struct delegates an interface to one of its fields with a struct tag. The
// struct must be marked as delegating:
//
//	//delegen:delegating
//	type Box struct {
//		inner English `delegate:"Greeter"`
//		count int
//	}
//
//	// generated: (simplified)
//	func (b Box) Greet(name string) string { return b.DelegateGreeterRef().Greet(name) }
//	func (b *Box) Rename(name string)      { b.DelegateGreeterRefMut().Rename(name) }
//
// Then run the delegen command. It will generate delegen_gen.go for your
// package:
//
//	go run github.com/sublee/delegen/cmd/delegen
//
// # Receivers
//
// Go interfaces do not say how a method treats its receiver. A method
// directive tells it to the generator:
//
//	//delegen:receiver none   the method ignores the receiver
//	//delegen:receiver value  the method takes the delegate by value
//	//delegen:receiver ref    the method reads the delegate (default)
//	//delegen:receiver mut    the method modifies the delegate
//	//delegen:const           the method returns a constant of the delegate type
//
// A method with receiver "mut" is generated on the pointer receiver of the
// struct. Run the command with -require-receiver to reject methods without a
// receiver.
//
// # Self type
//
// A type parameter of a delegated interface named Self stands for the type
// implementing the interface. Use "//delegen:self" to choose another name.
// Self-typed parameters are projected to the delegate of the argument:
//
//	//delegen:delegated
//	type Merger[Self any] interface {
//		//delegen:receiver mut
//		Merge(other *Self)
//	}
//
//	// generated: (simplified)
//	func (b *Box) Merge(other *Box) {
//		b.DelegateMergerRefMut().Merge(other.DelegateMergerRefMut())
//	}
//
// Type parameters listed in "//delegen:assoc" are associated types. They are
// never written in a target but inferred from the delegate.
//
// # Ad hoc wiring
//
// A struct which cannot carry tags, such as one whose fields are generated
// by another tool, can be wired with [Wire] in a file with the build
// constraint:
//
//	//go:build delegen
//
//	var _ = delegen.Wire[Box, English]("inner", "Greeter")
package delegen

type directive struct{}

// Wire directive delegates the target interface to a field of Aggregate. The
// field is named by a string or indexed by an integer literal. Field must be
// the type of the field.
//
// Wire must be assigned to the blank identifier at package level in a file
// with "//go:build delegen". The declaration is erased from the generated
// code:
//
//	var _ = delegen.Wire[Box, English]("inner", "Greeter")
//	var _ = delegen.Wire[Box, English](0, "DelegatedGreeter")
//
// The target names a delegated interface or its access interface. It may be
// qualified by an imported package name and may list the type arguments of
// the generic type parameters. Omitted type arguments are inferred:
//
//	var _ = delegen.Wire[Cache, *Map]("m", "store.Store[string]")
func Wire[Aggregate, Field any](field any, target string) directive {
	return directive{}
}
