package synth

import (
	"errors"
	"go/types"
	"slices"

	"github.com/sublee/delegen/internal/codefmt"
	"github.com/sublee/delegen/internal/delegen/model"
	"github.com/sublee/delegen/pkg/delegenerrors"
)

// Options controls the analysis of interfaces.
type Options struct {
	// RequireReceiver rejects methods without a receiver. Otherwise they are
	// forwarded to the zero value of the delegate type.
	RequireReceiver bool
}

// Analysis is the classified item list of an interface.
type Analysis struct {
	Interface *model.Interface
	Entries   []Entry
}

// Entry is a classified interface item.
type Entry struct {
	Item model.Item

	// Receiver is the receiver kind of a function item.
	Receiver model.ReceiverKind

	// Projections has an element for each argument of a function item in
	// order, telling which arguments are instances of the self type.
	Projections []Projection

	// Err is the diagnostic of the item. A failed item is rendered as an
	// error marker.
	Err error
}

// Projection tells whether an argument is projected to its delegate, and by
// which accessor.
type Projection struct {
	Kind      model.ReceiverKind
	Projected bool
}

// Analyze classifies the items of iface. Every item is classified
// independently. Failed items keep their diagnostic in [Entry.Err], which
// does not stop the classification of the other items.
func Analyze(pkger codefmt.Pkger, iface *model.Interface, opts Options) *Analysis {
	a := &Analysis{Interface: iface}
	self := iface.Self()

	for _, item := range iface.Items {
		e := Entry{Item: item}

		switch item := item.(type) {
		case *model.Func:
			e.Receiver = ClassifyReceiver(item.First())
			if e.Receiver == model.ReceiverNone && opts.RequireReceiver {
				e.Err = codefmt.KindErrorf(pkger, delegenerrors.ErrMissingReceiver, item,
					"method %s of %s must have a receiver", item.Name, iface.Name)
			}

			for _, p := range item.Args() {
				kind, ok := ClassifySelfParam(p, self)
				e.Projections = append(e.Projections, Projection{Kind: kind, Projected: ok})
			}

		case *model.Const:
			if item.Type == nil {
				e.Err = codefmt.KindErrorf(pkger, delegenerrors.ErrUnsupportedItemKind, item,
					"constant %s of %s must have exactly one result and no parameters", item.Name, iface.Name)
			}

		case *model.NestedGenerator:
			e.Err = codefmt.KindErrorf(pkger, delegenerrors.ErrUnsupportedItemKind, item,
				"%s of %s has a nested code generation directive %q which cannot be delegated", item.Name, iface.Name, item.Directive)

		case *model.AssocType, *model.Opaque:
			// Nothing to check. An associated type is projected from the
			// delegate and an opaque item is written as is.
		}

		a.Entries = append(a.Entries, e)
	}

	return a
}

// AnalyzeWiring narrows the analysis of an interface to a wiring. Functions
// without a receiver and constants are called on the zero value of the
// delegate type, which is a nil interface when the delegate is an interface.
// Such items fail for the wiring. The returned error holds the diagnostics of
// the wiring only.
func AnalyzeWiring(pkger codefmt.Pkger, a *Analysis, wiring *model.Wiring) (*Analysis, error) {
	if !isInterface(wiring.Delegate()) {
		return a, nil
	}

	wa := &Analysis{Interface: a.Interface, Entries: slices.Clone(a.Entries)}
	var errs []error
	for i, e := range wa.Entries {
		if e.Err != nil {
			continue
		}

		var what string
		switch item := e.Item.(type) {
		case *model.Func:
			if e.Receiver != model.ReceiverNone {
				continue
			}
			what = "method " + item.Name
		case *model.Const:
			what = "constant " + item.Name
		default:
			continue
		}

		e.Err = codefmt.KindErrorf(pkger, delegenerrors.ErrMissingReceiver, wiring,
			"%s of %s has no receiver and cannot be forwarded to the interface field %s of %s",
			what, a.Interface.Name, wiring.Field.Name, wiring.Aggregate.Name())
		wa.Entries[i] = e
		errs = append(errs, e.Err)
	}
	return wa, errors.Join(errs...)
}

// isInterface reports whether the delegate, or the type it points to, is an
// interface. A type parameter is not, whatever its constraint is.
func isInterface(delegate types.Type) bool {
	if ptr, ok := types.Unalias(delegate).(*types.Pointer); ok {
		delegate = ptr.Elem()
	}
	if _, ok := types.Unalias(delegate).(*types.TypeParam); ok {
		return false
	}
	return types.IsInterface(delegate)
}

// Err returns the diagnostics of all failed items in declaration order. It
// returns nil if there is no failed item.
func (a *Analysis) Err() error {
	var errs []error
	for _, e := range a.Entries {
		if e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return errors.Join(errs...)
}

// Funcs returns the entries of function items.
func (a *Analysis) Funcs() []Entry {
	var entries []Entry
	for _, e := range a.Entries {
		if _, ok := e.Item.(*model.Func); ok {
			entries = append(entries, e)
		}
	}
	return entries
}
