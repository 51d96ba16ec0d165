package main

import "fmt"

//delegen:delegated
type Closer interface {
	//delegen:receiver value
	Close() string
}

type File struct {
	name   string
	closed bool
}

func (f *File) Close() string {
	f.closed = true
	return "closed " + f.name
}

//delegen:delegating
type Handle struct {
	file File `delegate:"Closer"`
}

func main() {
	h := Handle{file: File{name: "a.txt"}}
	fmt.Println(h.Close())

	// The moved delegate is a copy.
	fmt.Println(h.file.closed)
}
