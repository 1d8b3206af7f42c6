package main

import (
	"fmt"

	"github.com/golangsnmp/asnc/cmd/internal/cliutil"
)

// CheckCommand compiles modules and prints a one line summary for each.
type CheckCommand struct {
	Args struct {
		Modules []string `positional-arg-name:"MODULE"`
	} `positional-args:"yes"`
}

func (c *CheckCommand) Execute([]string) error {
	res, err := compile(c.Args.Modules)
	if err != nil {
		cliutil.PrintError("%v", err)
		return err
	}
	for i, mod := range res.Modules {
		model := res.Models[i]
		fmt.Printf("%s: ok (%d types, %d values, %d native definitions)\n",
			mod.Name, len(mod.Definitions), len(mod.Values), len(model.Definitions))
	}
	return nil
}
