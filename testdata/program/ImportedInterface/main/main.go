package main

import (
	"fmt"
	"strings"

	"example.com/ImportedInterface/api"
)

type Buffer struct{ lines []string }

func (b *Buffer) Log(line string) { b.lines = append(b.lines, line) }

func (b *Buffer) Flush() []string {
	out := b.lines
	b.lines = nil
	return out
}

//delegen:delegating
type Service struct {
	name string
	buf  Buffer `delegate:"api.Logger"`
}

func main() {
	s := &Service{name: "svc"}
	var l api.Logger = s
	l.Log("start")
	l.Log("stop")
	fmt.Println(s.name, strings.Join(s.Flush(), ","))
	fmt.Println(len(l.Flush()))
}
