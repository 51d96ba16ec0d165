package buildconstraint

import "github.com/sublee/delegen" // want `file must have "//go:build delegen" constraint when importing delegen`

type Box struct{ n int }

var _ = delegen.Wire[Box, int]("n", "Counter") // want `Wire must be assigned to the blank identifier at package level`
