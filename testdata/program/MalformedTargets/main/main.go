package main

type English struct{}

func (English) Greet() string { return "hi" }

//delegen:delegating
type Box struct {
	a English `delegate:"Speaker"`
	b English `delegate:"fmt.Stringer"`
}

func main() {}
