// Command asnc compiles ASN.1 schema modules and prints or checks the
// resulting native models.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/jessevdk/go-flags"

	"github.com/golangsnmp/asnc"
	"github.com/golangsnmp/asnc/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or compile failure
)

// Options are the flags shared by every command.
type Options struct {
	Verbose []bool   `short:"v" long:"verbose" description:"enable debug logging (repeat for trace)"`
	Paths   []string `short:"p" long:"path" description:"schema directory or afs URL (repeatable)" default:"."`
	Naming  string   `long:"naming" description:"identifier mode" choice:"normalize" choice:"verbatim" default:"normalize"`

	Dump    *DumpCommand    `command:"dump" description:"print the native model of modules as YAML"`
	Check   *CheckCommand   `command:"check" description:"compile modules and report problems"`
	Version *VersionCommand `command:"version" description:"show version"`
}

var options Options

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	options = Options{}
	parser := flags.NewParser(&options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				fmt.Println(ferr.Message)
				return exitOK
			}
			cliutil.PrintError("%v", err)
		}
		// Command failures are reported by the command itself.
		return exitError
	}
	return exitOK
}

func setupLogger() *slog.Logger {
	if len(options.Verbose) == 0 {
		return nil
	}
	level := slog.LevelDebug
	if len(options.Verbose) >= 2 {
		level = asnc.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// compile loads the named modules, or every schema file when none are
// named, from the -p paths.
func compile(modules []string) (*asnc.Result, error) {
	mode, err := asnc.ParseNaming(options.Naming)
	if err != nil {
		return nil, err
	}
	sources := make([]asnc.Source, 0, len(options.Paths))
	for _, p := range options.Paths {
		sources = append(sources, asnc.Dir(p))
	}
	opts := []asnc.Option{asnc.WithNaming(mode)}
	if logger := setupLogger(); logger != nil {
		opts = append(opts, asnc.WithLogger(logger))
	}
	return asnc.Load(context.Background(), asnc.Multi(sources...), modules, opts...)
}

// VersionCommand prints the module version.
type VersionCommand struct{}

func (c *VersionCommand) Execute([]string) error {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("asnc %s\n", version)
	return nil
}
