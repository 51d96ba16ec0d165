package main

import "fmt"

//delegen:delegated
type Counter interface {
	//delegen:receiver value
	Snapshot() Tally

	Get() int

	//delegen:receiver mut
	Add(n int)

	//delegen:receiver none
	Unit() string

	//delegen:const
	Max() int

	Sum(nums ...int) int
}

type Tally struct{ n int }

func (t Tally) Snapshot() Tally { return t }
func (t Tally) Get() int        { return t.n }
func (t *Tally) Add(n int)      { t.n += n }
func (Tally) Unit() string      { return "items" }
func (Tally) Max() int          { return 100 }

func (t Tally) Sum(nums ...int) int {
	s := t.n
	for _, n := range nums {
		s += n
	}
	return s
}

//delegen:delegating
type Stock struct {
	name  string
	tally Tally `delegate:"Counter"`
}

func main() {
	s := Stock{name: "apples"}
	s.Add(3)
	s.Add(4)
	snap := s.Snapshot()
	s.Add(1)
	fmt.Println(s.name, s.Get(), snap.Get())
	fmt.Println(s.Unit(), s.Max())
	fmt.Println(s.Sum(10, 20))
}
