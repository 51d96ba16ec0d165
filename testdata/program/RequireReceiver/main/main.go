package main

//delegen:delegated
type Factory interface {
	//delegen:receiver none
	New() int
	Len() int
}

func main() {}
