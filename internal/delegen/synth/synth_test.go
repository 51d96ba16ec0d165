package synth

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
	"github.com/sublee/delegen/pkg/delegenerrors"
)

// check type-checks the source files as a package.
func check(t *testing.T, srcs ...string) *packages.Package {
	t.Helper()
	return checkImporting(t, nil, srcs...)
}

// checkImporting is like check but resolves imports by imp.
func checkImporting(t *testing.T, imp types.Importer, srcs ...string) *packages.Package {
	t.Helper()

	fset := token.NewFileSet()
	var files []*ast.File
	for i, src := range srcs {
		file, err := parser.ParseFile(fset, []string{"src.go", "delegen_gen.go"}[i], src, parser.ParseComments)
		require.NoError(t, err, src)
		files = append(files, file)
	}

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	pkg, err := (&types.Config{Importer: imp}).Check("example.com/p", fset, files, info)
	require.NoError(t, err, srcs[len(srcs)-1])

	return &packages.Package{
		ID:        "example.com/p",
		Name:      pkg.Name(),
		PkgPath:   "example.com/p",
		Fset:      fset,
		Syntax:    files,
		Types:     pkg,
		TypesInfo: info,
	}
}

// method builds a function item from an interface method. The receiver of
// the function is taken by kind.
func method(m *types.Func, self *types.TypeParam, kind model.ReceiverKind) *model.Func {
	sig := m.Type().(*types.Signature)
	fn := &model.Func{Name: m.Name(), NamePos: m.Pos(), Variadic: sig.Variadic()}

	if kind != model.ReceiverNone {
		borrow := map[model.ReceiverKind]model.Borrow{
			model.ReceiverValue:  model.BorrowOwned,
			model.ReceiverRef:    model.BorrowShared,
			model.ReceiverMutRef: model.BorrowExclusive,
		}[kind]
		fn.Params = append(fn.Params, model.Param{Name: "self", Type: self, Receiver: true, Borrow: borrow})
	}
	for i := range sig.Params().Len() {
		p := sig.Params().At(i)
		fn.Params = append(fn.Params, model.Param{Name: p.Name(), Type: p.Type(), Borrow: model.BorrowExclusive})
	}
	for i := range sig.Results().Len() {
		fn.Results = append(fn.Results, model.Param{Type: sig.Results().At(i).Type()})
	}
	return fn
}

func lookupInterface(pkg *packages.Package, name string) (*types.TypeName, *types.Interface) {
	obj := pkg.Types.Scope().Lookup(name).(*types.TypeName)
	return obj, obj.Type().Underlying().(*types.Interface)
}

func lookupMethod(iface *types.Interface, name string) *types.Func {
	for i := range iface.NumMethods() {
		if iface.Method(i).Name() == name {
			return iface.Method(i)
		}
	}
	panic("no method " + name)
}

func wire(pkg *packages.Package, agg, field string, iface *model.Interface) *model.Wiring {
	obj := pkg.Types.Scope().Lookup(agg).(*types.TypeName)
	st := obj.Type().Underlying().(*types.Struct)
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Name() == field {
			return &model.Wiring{
				Aggregate: obj,
				Field:     model.Field{Name: f.Name(), Index: i, Type: f.Type(), Embedded: f.Embedded()},
				Interface: iface,
				TypeArgs:  map[*types.TypeParam]types.Type{},
			}
		}
	}
	panic("no field " + field)
}

// generate renders everything for the wirings and returns the generated file.
func generate(pkg *packages.Package, wirings ...*model.Wiring) string {
	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, pkg).WithNS(codefmt.NewNS(pkg.Types.Scope()))

	written := map[*model.Interface]bool{}
	for _, wiring := range wirings {
		a := Analyze(codefmt.Pkg(pkg), wiring.Interface, Options{})
		if !written[wiring.Interface] {
			WriteAccess(w, a)
			written[wiring.Interface] = true
		}
		WriteFieldWiring(w, wiring)
		WriteForwarding(w, a, wiring)
	}
	return "package p\n\n" + buf.String()
}

const greetSrc = `package p

type Greeter interface {
	Greet(name string) string
	Rename(name string)
}

type Merger[Self any] interface {
	Merge(other *Self)
}

type English struct{ name string }

func (e English) Greet(name string) string { return "Hello, " + name + " from " + e.name }
func (e *English) Rename(name string)      { e.name = name }
func (e *English) Merge(other *English)    { e.name += other.name }

type Box struct {
	inner English
	count int
}
`

func TestGreeterForwarding(t *testing.T) {
	pkg := check(t, greetSrc)

	greeterObj, greeter := lookupInterface(pkg, "Greeter")
	greeterIface := &model.Interface{
		Name: "Greeter",
		Obj:  greeterObj,
		Items: []model.Item{
			method(lookupMethod(greeter, "Greet"), nil, model.ReceiverRef),
			method(lookupMethod(greeter, "Rename"), nil, model.ReceiverMutRef),
		},
	}

	mergerObj, merger := lookupInterface(pkg, "Merger")
	self := mergerObj.Type().(*types.Named).TypeParams().At(0)
	mergerIface := &model.Interface{
		Name:       "Merger",
		Obj:        mergerObj,
		TypeParams: []model.TypeParam{{TypeParam: self, Role: model.RoleSelf}},
		Items: []model.Item{
			method(lookupMethod(merger, "Merge"), self, model.ReceiverMutRef),
		},
	}

	code := generate(pkg,
		wire(pkg, "Box", "inner", greeterIface),
		wire(pkg, "Box", "inner", mergerIface),
	)

	assert.Contains(t, code, "type DelegatedGreeter[DelegateType any] interface {")
	assert.Contains(t, code, "func (b Box) DelegateGreeter() English {")
	assert.Contains(t, code, "return &b.inner")
	assert.Contains(t, code, "func (b Box) Greet(name string) string {")
	assert.Contains(t, code, "return b.DelegateGreeterRef().Greet(name)")
	assert.Contains(t, code, "func (b *Box) Rename(name string) {")
	assert.Contains(t, code, "b.DelegateGreeterRefMut().Rename(name)")
	assert.Contains(t, code, "var _ DelegatedGreeter[English] = (*Box)(nil)")
	assert.Contains(t, code, "var _ Greeter = (*Box)(nil)")

	assert.Contains(t, code, "func (b *Box) Merge(other *Box) {")
	assert.Contains(t, code, "b.DelegateMergerRefMut().Merge(other.DelegateMergerRefMut())")
	assert.Contains(t, code, "var _ Merger[Box] = (*Box)(nil)")

	// The other field of the aggregate is never touched.
	assert.NotContains(t, code, "count")

	check(t, greetSrc, code)
}

const shapeSrc = `package p

type Shape interface {
	Area() float64
	Scale(f float64)
	Sum(xs ...int) int
	Kind() string
	Sides() int
}

type Square struct{ side float64 }

func (s Square) Area() float64 { return s.side * s.side }
func (s *Square) Scale(f float64) { s.side *= f }
func (s Square) Sum(xs ...int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
func (Square) Kind() string { return "square" }
func (Square) Sides() int   { return 4 }

type Frame struct {
	*Square
}
`

func TestShapeForwarding(t *testing.T) {
	pkg := check(t, shapeSrc)

	obj, shape := lookupInterface(pkg, "Shape")
	sides := lookupMethod(shape, "Sides")
	iface := &model.Interface{
		Name: "Shape",
		Obj:  obj,
		Items: []model.Item{
			method(lookupMethod(shape, "Area"), nil, model.ReceiverValue),
			method(lookupMethod(shape, "Scale"), nil, model.ReceiverMutRef),
			method(lookupMethod(shape, "Sum"), nil, model.ReceiverRef),
			method(lookupMethod(shape, "Kind"), nil, model.ReceiverNone),
			&model.Const{Name: "Sides", NamePos: sides.Pos(), Type: types.Typ[types.Int]},
		},
	}

	code := generate(pkg, wire(pkg, "Frame", "Square", iface))

	assert.Contains(t, code, "func (f Frame) DelegateShape() *Square {")
	assert.Contains(t, code, "return f.Square")
	assert.Contains(t, code, "func (f Frame) Area() float64 {")
	assert.Contains(t, code, "delegate := f.DelegateShape()\nreturn delegate.Area()")

	// The receiver is renamed not to conflict with the parameter.
	assert.Contains(t, code, "func (f2 *Frame) Scale(f float64) {")
	assert.Contains(t, code, "(*f2.DelegateShapeRefMut()).Scale(f)")

	assert.Contains(t, code, "func (f Frame) Sum(xs ...int) int {")
	assert.Contains(t, code, "return (*f.DelegateShapeRef()).Sum(xs...)")

	assert.Contains(t, code, "func (Frame) Kind() string {")
	assert.Contains(t, code, "var zero Square")
	assert.Contains(t, code, "func (Frame) Sides() int {")
	assert.Contains(t, code, "var _ DelegatedShape[*Square] = (*Frame)(nil)")
	assert.Contains(t, code, "var _ Shape = (*Frame)(nil)")

	check(t, shapeSrc, code)
}

func TestMissingReceiverMarker(t *testing.T) {
	pkg := check(t, shapeSrc)

	obj, shape := lookupInterface(pkg, "Shape")
	iface := &model.Interface{
		Name: "Shape",
		Obj:  obj,
		Items: []model.Item{
			method(lookupMethod(shape, "Area"), nil, model.ReceiverValue),
			method(lookupMethod(shape, "Kind"), nil, model.ReceiverNone),
		},
	}

	a := Analyze(codefmt.Pkg(pkg), iface, Options{RequireReceiver: true})
	require.Len(t, a.Entries, 2)
	assert.NoError(t, a.Entries[0].Err)
	assert.ErrorIs(t, a.Entries[1].Err, delegenerrors.ErrMissingReceiver)
	assert.ErrorContains(t, a.Err(), "method Kind of Shape must have a receiver")

	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, pkg).WithNS(codefmt.NewNS(pkg.Types.Scope()))
	WriteForwarding(w, a, wire(pkg, "Frame", "Square", iface))
	code := buf.String()

	// The sibling is still forwarded.
	assert.Contains(t, code, "func (f Frame) Area() float64 {")
	assert.Contains(t, code, "// delegen: error: ")
	assert.NotContains(t, code, "Kind() string")

	// The interface is not asserted for an incomplete implementation.
	assert.Contains(t, code, "var _ DelegatedShape[*Square] = (*Frame)(nil)")
	assert.NotContains(t, code, "var _ Shape =")
}

func TestNestedGeneratorRejected(t *testing.T) {
	pkg := check(t, shapeSrc)
	obj, _ := lookupInterface(pkg, "Shape")
	iface := &model.Interface{
		Name:  "Shape",
		Obj:   obj,
		Items: []model.Item{&model.NestedGenerator{Name: "Area", Directive: "go:generate stringer"}},
	}

	a := Analyze(codefmt.Pkg(pkg), iface, Options{})
	assert.ErrorIs(t, a.Err(), delegenerrors.ErrUnsupportedItemKind)
	assert.ErrorContains(t, a.Err(), `Area of Shape has a nested code generation directive "go:generate stringer"`)
}

const storeSrc = `package p

type Store[K comparable, Self, Item any] interface {
	Get(key K) Item
	Put(key K, item Item)
	Len() int
}

type Named interface {
	Name() string
}

type Keyed[K comparable] interface {
	Named
	Keys() []K
}

type MapStore map[string]int

func (m MapStore) Get(key string) int       { return m[key] }
func (m MapStore) Put(key string, item int) { m[key] = item }
func (m MapStore) Len() int                 { return len(m) }
func (m MapStore) Name() string             { return "map" }
func (m MapStore) Keys() []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

type Cache struct {
	store MapStore
}

type Generic[T any] struct {
	store MapStore
	extra T
}
`

func TestGenericForwarding(t *testing.T) {
	pkg := check(t, storeSrc)

	obj, store := lookupInterface(pkg, "Store")
	tparams := obj.Type().(*types.Named).TypeParams()
	k, self, item := tparams.At(0), tparams.At(1), tparams.At(2)
	iface := &model.Interface{
		Name: "Store",
		Obj:  obj,
		TypeParams: []model.TypeParam{
			{TypeParam: k, Role: model.RoleGeneric},
			{TypeParam: self, Role: model.RoleSelf},
			{TypeParam: item, Role: model.RoleAssoc},
		},
		Items: []model.Item{
			&model.AssocType{Name: "Item", Param: item},
			method(lookupMethod(store, "Get"), self, model.ReceiverRef),
			method(lookupMethod(store, "Put"), self, model.ReceiverRef),
			method(lookupMethod(store, "Len"), self, model.ReceiverValue),
		},
	}

	cache := wire(pkg, "Cache", "store", iface)
	cache.TypeArgs[k] = types.Typ[types.String]
	cache.TypeArgs[item] = types.Typ[types.Int]

	code := generate(pkg, cache)

	assert.Contains(t, code, "type DelegatedStore[K comparable, DelegateType any] interface {")
	assert.Contains(t, code, "// Item is projected from MapStore as int.")
	assert.Contains(t, code, "func (c Cache) Get(key string) int {")
	assert.Contains(t, code, "return c.DelegateStoreRef().Get(key)")
	assert.Contains(t, code, "var _ DelegatedStore[string, MapStore] = (*Cache)(nil)")
	assert.Contains(t, code, "var _ Store[string, Cache, int] = (*Cache)(nil)")
	check(t, storeSrc, code)

	generic := wire(pkg, "Generic", "store", iface)
	generic.TypeArgs[k] = types.Typ[types.String]
	generic.TypeArgs[item] = types.Typ[types.Int]

	code = generate(pkg, generic)
	assert.Contains(t, code, "func (g Generic[T]) DelegateStore() MapStore {")
	assert.Contains(t, code, "func (g *Generic[T]) DelegateStoreRefMut() *MapStore {")
	assert.Contains(t, code, "func (g Generic[T]) Len() int {")
	assert.NotContains(t, code, "var _")
	check(t, storeSrc, code)
}

func TestAccessBoundBySupers(t *testing.T) {
	pkg := check(t, storeSrc)

	obj, keyed := lookupInterface(pkg, "Keyed")
	k := obj.Type().(*types.Named).TypeParams().At(0)
	named := pkg.Types.Scope().Lookup("Named").Type()
	iface := &model.Interface{
		Name:       "Keyed",
		Obj:        obj,
		TypeParams: []model.TypeParam{{TypeParam: k, Role: model.RoleGeneric}},
		Supers:     []types.Type{named},
		Items: []model.Item{
			method(lookupMethod(keyed, "Keys"), nil, model.ReceiverValue),
		},
	}

	wiring := wire(pkg, "Cache", "store", iface)
	wiring.TypeArgs[k] = types.Typ[types.String]
	code := generate(pkg, wiring)

	assert.Contains(t, code, "type DelegatedKeyed[K comparable, DelegateType Named] interface {")
	assert.Contains(t, code, "var _ DelegatedKeyed[string, MapStore] = (*Cache)(nil)")

	// Cache does not implement Named by itself.
	assert.NotContains(t, code, "var _ Keyed")
	check(t, storeSrc, code)
}

func TestNeedsDeref(t *testing.T) {
	pkg := check(t, storeSrc+`
type Ptr *MapStore
`)
	lookup := func(name string) types.Type { return pkg.Types.Scope().Lookup(name).Type() }

	assert.False(t, needsDeref(lookup("MapStore")))
	assert.True(t, needsDeref(lookup("Named")))
	assert.True(t, needsDeref(lookup("Ptr")))
	assert.True(t, needsDeref(types.NewPointer(lookup("MapStore"))))
	assert.True(t, needsDeref(types.Typ[types.Int]))
}

const closerSrc = `package p

type Closer interface {
	Close() string
	Kind() string
	Limit() int
}

type File struct{ closed bool }

func (f *File) Close() string { f.closed = true; return "closed" }
func (File) Kind() string      { return "file" }
func (File) Limit() int        { return 1 }

type Handle struct {
	file File
}

type Proxy struct {
	target Closer
	ptr    *Closer
}

type Slot[T any] struct {
	v T
}
`

func closerInterface(pkg *packages.Package) *model.Interface {
	obj, closer := lookupInterface(pkg, "Closer")
	limit := lookupMethod(closer, "Limit")
	return &model.Interface{
		Name: "Closer",
		Obj:  obj,
		Items: []model.Item{
			method(lookupMethod(closer, "Close"), nil, model.ReceiverValue),
			method(lookupMethod(closer, "Kind"), nil, model.ReceiverNone),
			&model.Const{Name: "Limit", NamePos: limit.Pos(), Type: types.Typ[types.Int]},
		},
	}
}

func TestValueReceiverBindsDelegate(t *testing.T) {
	pkg := check(t, closerSrc)
	iface := closerInterface(pkg)

	code := generate(pkg, wire(pkg, "Handle", "file", iface))
	assert.Contains(t, code, "func (h Handle) Close() string {\ndelegate := h.DelegateCloser()\nreturn delegate.Close()")

	// File implements Close on its pointer.
	check(t, closerSrc, code)
}

func TestAnalyzeWiringInterfaceDelegate(t *testing.T) {
	pkg := check(t, closerSrc)
	iface := closerInterface(pkg)
	a := Analyze(codefmt.Pkg(pkg), iface, Options{})

	for _, field := range []string{"target", "ptr"} {
		wiring := wire(pkg, "Proxy", field, iface)
		wa, err := AnalyzeWiring(codefmt.Pkg(pkg), a, wiring)
		require.Error(t, err, field)
		assert.ErrorIs(t, err, delegenerrors.ErrMissingReceiver)
		assert.Contains(t, err.Error(), "method Kind of Closer has no receiver and cannot be forwarded to the interface field "+field+" of Proxy")
		assert.Contains(t, err.Error(), "constant Limit of Closer has no receiver")

		require.Len(t, wa.Entries, 3)
		assert.NoError(t, wa.Entries[0].Err)
		assert.Error(t, wa.Entries[1].Err)
		assert.Error(t, wa.Entries[2].Err)
	}

	// The analysis of the interface is not affected.
	assert.NoError(t, a.Err())
}

func TestAnalyzeWiringConcreteDelegate(t *testing.T) {
	pkg := check(t, closerSrc)
	iface := closerInterface(pkg)
	a := Analyze(codefmt.Pkg(pkg), iface, Options{})

	wa, err := AnalyzeWiring(codefmt.Pkg(pkg), a, wire(pkg, "Handle", "file", iface))
	require.NoError(t, err)
	assert.Same(t, a, wa)

	// A type parameter is not known to be an interface.
	wa, err = AnalyzeWiring(codefmt.Pkg(pkg), a, wire(pkg, "Slot", "v", iface))
	require.NoError(t, err)
	assert.Same(t, a, wa)
}

const thingSrc = `package t

type Thing struct{ n int }

func (x Thing) Count() int { return x.n }
`

const tallySrc = `package p

import "example.com/t"

type Counter interface {
	Count() int
}

type Tally struct {
	inner t.Thing
}
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func TestReceiverNameAvoidsImports(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "thing.go", thingSrc, 0)
	require.NoError(t, err)
	thing, err := (&types.Config{}).Check("example.com/t", fset, []*ast.File{file}, nil)
	require.NoError(t, err)
	imp := importerFunc(func(string) (*types.Package, error) { return thing, nil })

	pkg := checkImporting(t, imp, tallySrc)
	obj, counter := lookupInterface(pkg, "Counter")
	iface := &model.Interface{
		Name:  "Counter",
		Obj:   obj,
		Items: []model.Item{method(lookupMethod(counter, "Count"), nil, model.ReceiverRef)},
	}

	code := generate(pkg, wire(pkg, "Tally", "inner", iface))
	assert.Contains(t, code, "func (t2 Tally) DelegateCounter() t.Thing {")
	assert.Contains(t, code, "func (t2 *Tally) DelegateCounterRef() *t.Thing {")
	assert.Contains(t, code, "func (t2 Tally) Count() int {")
	assert.NotContains(t, code, "func (t Tally)")

	code = strings.Replace(code, "package p\n", "package p\n\nimport \"example.com/t\"\n", 1)
	checkImporting(t, imp, tallySrc, code)
}
