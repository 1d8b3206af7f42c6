package asnc

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/golangsnmp/asnc/internal/types"
)

// ErrNoSources is returned when Load is called without a source.
var ErrNoSources = errors.New("no schema sources provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, definitions, components).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures Compile and Load.
type Option func(*config)

type config struct {
	logger *slog.Logger
	naming Naming
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithNaming sets the identifier mode used by lowering. The default is
// Normalize.
func WithNaming(mode Naming) Option {
	return func(c *config) { c.naming = mode }
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Input is one schema text. Location names it in errors and logs.
type Input struct {
	Location string
	Content  []byte
}

// Result holds every compiled module. Modules and Models are parallel:
// Models[i] is the lowered form of Modules[i], in input order.
type Result struct {
	Modules []*Module
	Models  []*Model
}

// Module returns the resolved module with the given name.
func (r *Result) Module(name string) (*Module, bool) {
	for _, m := range r.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Model returns the lowered model of the module with the given name.
func (r *Result) Model(name string) (*Model, bool) {
	for _, m := range r.Models {
		if m.Module == name {
			return m, true
		}
	}
	return nil, false
}

// EncodeYAML writes the native models as a YAML document.
func (r *Result) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Models); err != nil {
		return errors.Wrap(err, "encoding models")
	}
	return enc.Close()
}

// Compile parses, resolves and lowers the modules in inputs. The inputs
// form each other's import scope; a module importing from a module that
// is not among them fails to resolve.
//
// Example:
//
//	res, err := asnc.Compile(ctx, []asnc.Input{{Location: "x.asn", Content: src}},
//	    asnc.WithLogger(slog.Default()),
//	)
func Compile(ctx context.Context, inputs []Input, opts ...Option) (*Result, error) {
	return compile(ctx, inputs, newConfig(opts))
}

// Load reads schema files from source and compiles them. With no names,
// every schema file the source lists is compiled. Otherwise the named
// modules are loaded along with the modules they import, transitively.
//
// Example:
//
//	res, err := asnc.Load(ctx, asnc.Dir("./schemas"), []string{"App"})
func Load(ctx context.Context, source Source, names []string, opts ...Option) (*Result, error) {
	if source == nil {
		return nil, ErrNoSources
	}
	cfg := newConfig(opts)
	if len(names) == 0 {
		inputs, err := source.List(ctx)
		if err != nil {
			return nil, err
		}
		return compile(ctx, inputs, cfg)
	}
	mods, err := loadByName(ctx, source, names, cfg)
	if err != nil {
		return nil, err
	}
	return build(ctx, mods, cfg)
}

// logEnabled returns true if logging is enabled at the given level.
func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
