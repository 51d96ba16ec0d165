package delegeninternal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/parse"
)

var Version string

// Main is the main entry point for delegen. It is used by the command-line
// tool directly.
//
// ctx is the context for loading packages. If the loading is too slow, ctx can
// cancel the operation. wd is the path of the working directory. env is the
// environment variables to use when running the tool. cfg holds the build
// tags, whether to include test files, the output file name, and the receiver
// policy. opts is passed to every [Delegen]. And patterns are the package
// patterns to process. If there is no pattern, cfg.Packages is used.
//
// It returns a map of output file paths to their contents. If any error occurs,
// it returns a non-nil error.
func Main(ctx context.Context, wd string, env []string, cfg Config, opts Options, patterns []string) (map[string][]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(patterns) == 0 {
		patterns = cfg.Packages
	}
	if cfg.Receivers == ReceiversRequired {
		opts.RequireReceiver = true
	}
	log := opts.logger()

	pkgs, err := load(ctx, wd, env, cfg.Tags, cfg.Tests, patterns)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded packages", "count", len(pkgs))

	// Generate code for each package concurrently. Results are stored by
	// index to keep the output deterministic.
	type result struct {
		out   string
		code  []byte
		debug bytes.Buffer
		err   error
	}
	results := make([]result, len(pkgs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		g.Go(func() error {
			r := &results[i]

			dg, err := New(pkg, opts)
			if err != nil {
				r.err = err
				return nil
			}

			err = dg.Build()
			if opts.Debug != nil {
				dg.Dump(&r.debug)
			}
			if err != nil {
				r.err = err
				return nil
			}

			r.code = dg.Generate()
			if len(r.code) == 0 {
				return nil
			}

			outDir := filepath.Dir(pkg.GoFiles[0])
			if rel, err := filepath.Rel(wd, outDir); err == nil {
				outDir = rel
			}
			r.out = filepath.Join(outDir, cfg.Output)
			log.Info("generated", "pkg", pkg.PkgPath, "out", r.out)
			return nil
		})
	}
	_ = g.Wait()

	outs := make(map[string][]byte)
	var errs error
	for _, r := range results {
		if opts.Debug != nil {
			_, _ = r.debug.WriteTo(opts.Debug)
		}
		if r.err != nil {
			errs = errors.Join(errs, r.err)
			continue
		}
		if r.out != "" {
			outs[r.out] = r.code
		}
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, reorderErrors(errs, wd)
	}

	return outs, nil
}

// load loads packages. Type errors are tolerated since the methods generated
// by delegen are missing until the generation.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=" + parse.BuildTag},
		Tests:      tests,
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Kind == packages.TypeError {
				continue
			}

			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return pkgs, nil
}

// reorderErrors flattens joined errors and sorts them by their positions in
// source code. Errors without a position come first in their original order.
// Positions are made relative to wd.
func reorderErrors(errs error, wd string) error {
	if errs == nil {
		return nil
	}

	// Flatten nested errors
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			// errors.Join collapses errors with a single error having Unwrap()
			// []error method. The underlying errors could be retrieved using
			// the Unwrap() method.
			list = append(list, u.Unwrap()...)

			// The underlying errors are appended to the list. So the original
			// error can be removed.
			list[i] = nil
			continue
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	// Sort errors by position
	position := func(err error) token.Position {
		var codeErr *codefmt.CodeError
		if !errors.As(err, &codeErr) {
			return token.Position{}
		}
		pos := codeErr.Position()
		if rel, err := filepath.Rel(wd, pos.Filename); err == nil && pos.Filename != "" {
			pos.Filename = rel
		}
		return pos
	}
	slices.SortStableFunc(list, func(a, b error) int {
		return codefmt.ComparePosition(position(a), position(b))
	})
	return errors.Join(list...)
}
