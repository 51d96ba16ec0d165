package main

//delegen:delegated
type Kinded interface {
	//delegen:receiver none
	Kind() string

	//delegen:const
	Limit() int

	Name() string
}

type Impl struct{}

func (Impl) Kind() string { return "impl" }
func (Impl) Limit() int   { return 1 }
func (Impl) Name() string { return "impl" }

//delegen:delegating
type Holder struct {
	k Kinded `delegate:"Kinded"`
}

func main() {}
