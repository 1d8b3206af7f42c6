package asnc

import (
	"context"
	"io/fs"
	"log/slog"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/golangsnmp/asnc/internal/lower"
	"github.com/golangsnmp/asnc/internal/native"
	"github.com/golangsnmp/asnc/internal/parser"
	"github.com/golangsnmp/asnc/internal/resolver"
	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
	"github.com/golangsnmp/asnc/internal/types"
)

func compile(ctx context.Context, inputs []Input, cfg config) (*Result, error) {
	mods, err := parseInputs(ctx, inputs, cfg)
	if err != nil {
		return nil, err
	}
	return build(ctx, mods, cfg)
}

// parseInputs parses every input in parallel. Modules are returned in
// input order; a file holding several modules contributes them in source
// order.
func parseInputs(ctx context.Context, inputs []Input, cfg config) ([]*schema.Module, error) {
	logger := cfg.logger
	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parallel parsing",
			slog.Int("files", len(inputs)))
	}

	parsed := make([][]*schema.Module, len(inputs))
	err := parallel(ctx, len(inputs), func(i int) error {
		mods, err := parser.Parse(inputs[i].Content, types.Component(logger, "parser"))
		if err != nil {
			return errors.Wrapf(err, "parsing %s", inputs[i].Location)
		}
		parsed[i] = mods
		return nil
	})
	if err != nil {
		return nil, err
	}

	var mods []*schema.Module
	for _, p := range parsed {
		mods = append(mods, p...)
	}
	return mods, nil
}

// build resolves the modules as one batch and lowers each of them.
func build(ctx context.Context, mods []*schema.Module, cfg config) (*Result, error) {
	logger := cfg.logger
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := resolver.ResolveAll(mods, types.Component(logger, "resolver"))
	if err != nil {
		return nil, errors.Wrap(err, "resolving")
	}

	s := scope.New(resolved...)
	opts := lower.Options{Naming: cfg.naming, Logger: types.Component(logger, "lower")}
	models := make([]*native.Model, len(resolved))
	err = parallel(ctx, len(resolved), func(i int) error {
		m, err := lower.Lower(resolved[i], s, opts)
		if err != nil {
			return errors.Wrapf(err, "lowering %s", resolved[i].Name)
		}
		models[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "compile complete",
			slog.Int("modules", len(resolved)))
	}
	return &Result{Modules: resolved, Models: models}, nil
}

// parallel runs fn for 0..n-1 on up to NumCPU goroutines and returns the
// error of the lowest failing index.
func parallel(ctx context.Context, n int, fn func(i int) error) error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			errs[i] = fn(i)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// loadByName reads the named modules and, transitively, the modules they
// import. A requested module that cannot be found is an error; a missing
// import is left for resolution to report.
func loadByName(ctx context.Context, source Source, names []string, cfg config) ([]*schema.Module, error) {
	logger := cfg.logger
	var loaded []*schema.Module
	seen := make(map[string]struct{})

	var loadOne func(name string, required bool) error
	loadOne = func(name string, required bool) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, ok := seen[name]; ok {
			return nil
		}
		seen[name] = struct{}{}

		content, location, err := source.Find(ctx, name)
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return errors.Errorf("module %s not found", name)
			}
			if logEnabled(logger, slog.LevelDebug) {
				logger.LogAttrs(ctx, slog.LevelDebug, "module not found",
					slog.String("module", name))
			}
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "finding %s", name)
		}
		mods, err := parser.Parse(content, types.Component(logger, "parser"))
		if err != nil {
			return errors.Wrapf(err, "parsing %s", location)
		}
		loaded = append(loaded, mods...)
		for _, mod := range mods {
			seen[mod.Name] = struct{}{}
		}
		for _, mod := range mods {
			for _, imp := range mod.Imports {
				if err := loadOne(imp.From, false); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, name := range names {
		if err := loadOne(name, true); err != nil {
			return nil, err
		}
	}
	return loaded, nil
}
