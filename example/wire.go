//go:build delegen

package main

import "github.com/sublee/delegen"

var _ = delegen.Wire[Audited, *Inventory]("inner", "Named")
