package main

import (
	"errors"

	"github.com/golangsnmp/asnc/cmd/internal/cliutil"
)

// DumpCommand prints native models as YAML.
type DumpCommand struct {
	Output string `short:"o" long:"output" description:"write to file instead of stdout"`
	Args   struct {
		Modules []string `positional-arg-name:"MODULE"`
	} `positional-args:"yes"`
}

func (c *DumpCommand) Execute([]string) error {
	res, err := compile(c.Args.Modules)
	if err != nil {
		cliutil.PrintError("failed to compile: %v", err)
		return err
	}
	if len(res.Models) == 0 {
		cliutil.PrintError("no modules found")
		return errors.New("no modules found")
	}

	out, done, err := cliutil.GetOutput(c.Output)
	if err != nil {
		cliutil.PrintError("cannot create %s: %v", c.Output, err)
		return err
	}
	defer done()
	if err := res.EncodeYAML(out); err != nil {
		cliutil.PrintError("%v", err)
		return err
	}
	return nil
}
