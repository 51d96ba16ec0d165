package main

import "fmt"

//delegen:delegated
//delegen:assoc Item
type Iter[Self, Item any] interface {
	//delegen:receiver mut
	Next() (Item, bool)
}

type Countdown struct{ n int }

func (c *Countdown) Next() (int, bool) {
	if c.n == 0 {
		return 0, false
	}
	c.n--
	return c.n + 1, true
}

//delegen:delegating
type Launch struct {
	label string
	clock Countdown `delegate:"Iter"`
}

func main() {
	l := Launch{label: "liftoff", clock: Countdown{n: 3}}
	var it Iter[Launch, int] = &l
	for {
		n, ok := it.Next()
		if !ok {
			break
		}
		fmt.Println(n)
	}
	fmt.Println(l.label)
}
