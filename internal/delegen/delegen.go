package delegeninternal

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
	"github.com/sublee/delegen/internal/delegen/parse"
	"github.com/sublee/delegen/internal/delegen/synth"
)

// Options controls code generation of a package.
type Options struct {
	// RequireReceiver rejects interface methods without a receiver.
	RequireReceiver bool

	// Logger receives progress logs. Nothing is logged if it is nil.
	Logger *slog.Logger

	// Imported finds a delegated interface declared in another package. If
	// it is nil, interfaces are parsed from the syntax of the imported
	// packages.
	Imported func(pkgPath, name string) (*parse.Delegated, bool)

	// Debug receives a dump of the parsed interfaces and wirings of each
	// package. Nothing is dumped if it is nil.
	Debug io.Writer
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Delegen generates delegation code for the target package. Call [Build] and
// then [Generate] to get the generated code. All potential errors are returned
// by [Build]. Once [Build] succeeds, [Generate] never fails.
type Delegen struct {
	p    *parse.Parser
	opts Options
	log  *slog.Logger
	ns   codefmt.NS
	buf  *bytes.Buffer
	w    *codefmt.Writer

	// ifaces holds delegated interfaces by "path.Name" in the order they
	// are found. Local interfaces come first.
	ifaces   *linkedhashmap.Map // string -> *parse.Delegated
	locals   []*parse.Delegated
	analyses map[*model.Interface]*synth.Analysis
	wired    map[*model.Wiring]*synth.Analysis
	wirings  []*model.Wiring
	wires    map[token.Pos]struct{} // delegen.Wire calls to erase
}

// New creates a new [Delegen] for the given package. If the package does not
// satisfy the requirements, an error is returned. The package must have its
// Syntax, Types and TypesInfo.
func New(pkg *packages.Package, opts Options) (*Delegen, error) {
	p, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	ns := codefmt.NewNS(pkg.Types.Scope())
	return &Delegen{
		p:        p,
		opts:     opts,
		log:      opts.logger().With("pkg", pkg.PkgPath),
		ns:       ns,
		buf:      &buf,
		w:        codefmt.NewWriter(&buf, pkg).WithNS(ns),
		ifaces:   linkedhashmap.New(),
		analyses: make(map[*model.Interface]*synth.Analysis),
		wired:    make(map[*model.Wiring]*synth.Analysis),
		wires:    make(map[token.Pos]struct{}),
	}, nil
}

// Build prepares code generation by parsing code and resolving wirings. All
// potential errors are returned by this method. It must be called before
// [Generate].
func (dg *Delegen) Build() error {
	errs := dg.p.Validate()

	// Delegated interfaces declared in this package
	locals, err := dg.p.ParseInterfaces()
	errs = errors.Join(errs, err)
	dg.locals = locals
	for _, d := range locals {
		dg.ifaces.Put(key(d.Interface.Pkg().Path(), d.Interface.Name), d)
		errs = errors.Join(errs, dg.analyze(d.Interface).Err())
		dg.log.Debug("found delegated interface", "name", d.Interface.Name, "items", len(d.Interface.Items))
	}

	// Fields bound by struct tags and delegen.Wire directives
	aggs, err := dg.p.ParseAggregates()
	errs = errors.Join(errs, err)
	bindings := parse.Bindings(aggs)

	wires, err := dg.p.ParseWires()
	errs = errors.Join(errs, err)
	bindings = append(bindings, wires...)
	for _, file := range dg.p.DelegenGoFiles() {
		for call := range dg.p.FindWires(file) {
			dg.wires[call.Pos()] = struct{}{}
		}
	}

	// Resolve bindings into wirings. The same field wired to the same
	// interface twice is generated once.
	var seen typeutil.Map // aggregate type -> map[wiringKey]bool
	for _, b := range bindings {
		wiring, err := dg.p.ResolveTarget(b, dg)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		done, _ := seen.At(wiring.Aggregate.Type()).(map[wiringKey]bool)
		if done == nil {
			done = make(map[wiringKey]bool)
			seen.Set(wiring.Aggregate.Type(), done)
		}
		k := wiringKey{wiring.Field.Index, wiring.Interface}
		if done[k] {
			dg.log.Debug("skip duplicate wiring", "wiring", synth.Describe(wiring))
			continue
		}
		done[k] = true

		a, err := synth.AnalyzeWiring(dg.p, dg.analyze(wiring.Interface), wiring)
		errs = errors.Join(errs, err)
		dg.wired[wiring] = a
		dg.wirings = append(dg.wirings, wiring)
		dg.log.Debug("wired field", "wiring", synth.Describe(wiring))
	}

	return errs
}

type wiringKey struct {
	field int
	iface *model.Interface
}

func key(pkgPath, name string) string { return pkgPath + "." + name }

// Lookup implements [parse.Interfaces]. Interfaces of other packages are
// looked up on demand.
func (dg *Delegen) Lookup(pkgPath, name string) (*model.Interface, bool) {
	if v, ok := dg.ifaces.Get(key(pkgPath, name)); ok {
		return v.(*parse.Delegated).Interface, true
	}
	if pkgPath == dg.p.Pkg().PkgPath {
		return nil, false
	}

	imported := dg.opts.Imported
	if imported == nil {
		imported = dg.importedFromSyntax
	}
	d, ok := imported(pkgPath, name)
	if !ok {
		return nil, false
	}
	dg.ifaces.Put(key(pkgPath, name), d)
	return d.Interface, true
}

// Names implements [parse.NameLister]. It lists the delegated interfaces of
// the package found so far.
func (dg *Delegen) Names(pkgPath string) []string {
	var names []string
	it := dg.ifaces.Iterator()
	for it.Next() {
		d := it.Value().(*parse.Delegated)
		if d.Interface.Pkg().Path() == pkgPath {
			names = append(names, d.Interface.Name)
		}
	}
	return names
}

// importedFromSyntax parses delegated interfaces of a directly imported
// package. Errors in the imported package are reported when generating code
// for it, not here.
func (dg *Delegen) importedFromSyntax(pkgPath, name string) (*parse.Delegated, bool) {
	dep, ok := dg.p.Pkg().Imports[pkgPath]
	if !ok || dep.Syntax == nil || dep.TypesInfo == nil {
		return nil, false
	}

	p, err := parse.New(dep)
	if err != nil {
		return nil, false
	}
	delegated, _ := p.ParseInterfaces()
	for _, d := range delegated {
		if d.Interface.Name == name {
			return d, true
		}
	}
	return nil, false
}

// analyze returns the analysis of the interface. Interfaces are analyzed
// once.
func (dg *Delegen) analyze(iface *model.Interface) *synth.Analysis {
	if a, ok := dg.analyses[iface]; ok {
		return a
	}
	a := synth.Analyze(dg.p, iface, synth.Options{RequireReceiver: dg.opts.RequireReceiver})
	dg.analyses[iface] = a
	return a
}

// Interfaces returns the delegated interfaces declared in the package.
func (dg *Delegen) Interfaces() []*parse.Delegated {
	return dg.locals
}

// Wirings returns the resolved wirings in declaration order.
func (dg *Delegen) Wirings() []*model.Wiring {
	return dg.wirings
}

// Dump writes the parsed interfaces and the resolved wirings to w in a
// human-readable form.
func (dg *Delegen) Dump(w io.Writer) {
	type wiringDump struct {
		Aggregate string
		Field     string
		Index     int
		Interface string
		TypeArgs  map[string]string
		Origin    string
	}

	specs := make([]parse.InterfaceSpec, len(dg.locals))
	for i, d := range dg.locals {
		specs[i] = d.Spec
	}
	wirings := make([]wiringDump, len(dg.wirings))
	for i, wiring := range dg.wirings {
		args := make(map[string]string, len(wiring.TypeArgs))
		for tp, arg := range wiring.TypeArgs {
			args[tp.Obj().Name()] = arg.String()
		}
		origin := "tag"
		if wiring.Origin == model.OriginDirective {
			origin = "directive"
		}
		wirings[i] = wiringDump{
			Aggregate: wiring.Aggregate.Name(),
			Field:     wiring.Field.Name,
			Index:     wiring.Field.Index,
			Interface: key(wiring.Interface.Pkg().Path(), wiring.Interface.Name),
			TypeArgs:  args,
			Origin:    origin,
		}
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		SortKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	fmt.Fprintf(w, "# %s\n", dg.p.Pkg().PkgPath)
	cfg.Fdump(w, specs, wirings)
}

// Generate generates delegation code for the package. It must be called after
// [Build]. It returns nil if the package uses no delegen feature.
func (dg *Delegen) Generate() []byte {
	if len(dg.locals) == 0 && len(dg.wirings) == 0 && len(dg.p.DelegenGoFiles()) == 0 {
		return nil
	}

	dg.writeAccessCode()
	dg.writeWiringCode()
	dg.mergeCode()
	return dg.frameCode()
}

// writeAccessCode writes the access interfaces of the local delegated
// interfaces.
func (dg *Delegen) writeAccessCode() {
	if len(dg.locals) == 0 {
		return
	}

	dg.w.Printf("// delegen: access interfaces\n\n")
	for _, d := range dg.locals {
		synth.WriteAccess(dg.w.Fork(), dg.analyze(d.Interface))
		dg.w.Printf("\n")
	}
}

// writeWiringCode writes accessors and forwarding methods for every wiring.
func (dg *Delegen) writeWiringCode() {
	if len(dg.wirings) == 0 {
		return
	}

	wirings := slices.Clone(dg.wirings)
	fset := dg.p.Pkg().Fset
	slices.SortStableFunc(wirings, func(a, b *model.Wiring) int {
		return codefmt.ComparePosition(fset.Position(a.Pos()), fset.Position(b.Pos()))
	})

	dg.w.Printf("// delegen: forwarding\n\n")
	for _, wiring := range wirings {
		dg.w.Printf("// %s delegates %s to its %s field.\n\n", wiring.Aggregate.Name(), wiring.Interface.Name, wiring.Field.Name)
		synth.WriteFieldWiring(dg.w.Fork(), wiring)
		dg.w.Printf("\n")
		synth.WriteForwarding(dg.w.Fork(), dg.wired[wiring], wiring)
		dg.w.Printf("\n")
	}
}

// mergeCode copies non-delegen code from the source files that tagged with
// "//go:build delegen". It erases delegen.Wire directives to remove any
// references to the delegen package.
func (dg *Delegen) mergeCode() {
	for _, file := range dg.p.DelegenGoFiles() {
		name := filepath.Base(dg.p.Pkg().Fset.File(file.Pos()).Name())
		first := true

		for _, decl := range file.Decls {
			if gen, ok := decl.(*ast.GenDecl); ok {
				if gen.Tok == token.IMPORT {
					// Skip import declarations in files. Required imports will
					// be collected from their usage, and then rewritten as an
					// import declaration group.
					continue
				}
			}

			// Erase delegen.Wire directives
			decl = astutil.Apply(decl, func(c *astutil.Cursor) bool {
				spec, ok := c.Node().(*ast.ValueSpec)
				if !ok {
					return true
				}

				var names []*ast.Ident
				var values []ast.Expr
				for i := range spec.Names {
					if i >= len(spec.Values) {
						names = append(names, spec.Names[i])
						continue
					}

					if _, ok := dg.wires[ast.Unparen(spec.Values[i]).Pos()]; !ok {
						names = append(names, spec.Names[i])
						values = append(values, spec.Values[i])
					}
				}

				if len(names) == 0 {
					// Input:  var ( _ = delegen.Wire[...](...) )
					// Output: var ()
					c.Delete()
				} else if len(names) != len(spec.Names) {
					// Input:  var ( _, b = delegen.Wire[...](...), 42 )
					// Output: var ( b = 42 )
					c.Replace(&ast.ValueSpec{
						Doc:     spec.Doc,
						Names:   names,
						Type:    spec.Type,
						Values:  values,
						Comment: spec.Comment,
					})
				}

				return false
			}, nil).(ast.Decl)

			// Skip empty declarations
			if gen, ok := decl.(*ast.GenDecl); ok {
				if len(gen.Specs) == 0 {
					continue
				}
			}

			if first {
				fmt.Fprintf(dg.buf, "// %s:\n\n", name)
				first = false
			}

			// Prevent import name conflicts when merging multiple files into one
			decl = codefmt.RewriteImports(dg.w, decl)

			// Write rewritten declaration code
			printer.Fprint(dg.buf, dg.p.Pkg().Fset, &printer.CommentedNode{
				Node:     decl,
				Comments: file.Comments,
			})
			fmt.Fprintf(dg.buf, "\n\n")
		}
	}
}

func (dg *Delegen) frameCode() []byte {
	// Prepend header code
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build !%s\n\n", parse.BuildTag)
	fmt.Fprintf(&buf, "// Code generated by github.com/sublee/delegen%s. DO NOT EDIT.\n\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n", dg.p.Pkg().Name)

	// Types rendered only in comments leave unused imports behind.
	imports := dg.w.Imports()
	if used, ok := usedQualifiers(dg.buf.Bytes()); ok {
		imports = maps.Clone(imports)
		maps.DeleteFunc(imports, func(alias string, _ codefmt.Import) bool {
			return !used[alias]
		})
	}

	if len(imports) != 0 {
		fmt.Fprintf(&buf, "import (\n")
		for _, alias := range slices.Sorted(maps.Keys(imports)) {
			imp := imports[alias]
			if parse.IsDelegenImport(imp.Path()) {
				// delegen.Wire directives are erased. The import must not
				// remain.
				dg.log.Warn("delegen import remains", "alias", alias)
				continue
			}

			if imp.HasAlias {
				fmt.Fprintf(&buf, "%s %q\n", alias, imp.Path())
			} else {
				fmt.Fprintf(&buf, "%q\n", imp.Path())
			}
		}
		fmt.Fprintf(&buf, ")\n")
	}

	_, _ = io.Copy(&buf, dg.buf)
	code := buf.Bytes()

	// Apply gofmt if succeeded
	if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	} else {
		dg.log.Warn("cannot format generated code", "err", err)
	}
	return code
}

// usedQualifiers parses declarations and collects the identifiers used as
// qualifiers. It returns false if the code cannot be parsed.
func usedQualifiers(decls []byte) (map[string]bool, bool) {
	src := append([]byte("package p\n\n"), decls...)
	file, err := parser.ParseFile(token.NewFileSet(), "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, false
	}

	used := make(map[string]bool)
	ast.Inspect(file, func(node ast.Node) bool {
		if sel, ok := node.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				used[id.Name] = true
			}
		}
		return true
	})
	return used, true
}
