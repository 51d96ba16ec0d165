package tagwiring

//delegen:delegated
type Greeter interface { // want Greeter:"delegated Greeter"
	Greet() string
}

//delegen:delegated
type Source[T any] interface { // want Source:"delegated Source"
	Read() T
}

type English struct{}

func (English) Greet() string { return "hello" }

type Plain struct {
	e English `delegate:"Greeter"` // want `delegate tag on a field of Plain which is not marked with //delegen:delegating`
}

//delegen:delegating
type Box struct {
	a English `delegate:""`             // want `delegate tag lists no interface`
	b English `delegate:"Speaker"`      // want `Speaker is not a delegated interface`
	c English `delegate:"Greeter[int]"` // want `DelegatedGreeter needs 0 type arguments but 1 given`
	d English `delegate:"Source"`       // want `cannot infer T of Source`
	e English `delegate:"Greeter"`
	f English `delegate:"fmt.Stringer"` // want `unknown package fmt in target "fmt.Stringer"`
}
