//go:build delegen

package main

import (
	"fmt"

	"github.com/sublee/delegen"
)

var _ = delegen.Wire[Item, Tag]("tag", "Namer")

func describe(it Item) string { return fmt.Sprintf("item %d", it.id) }
