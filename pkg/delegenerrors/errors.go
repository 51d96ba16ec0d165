// Package delegenerrors defines the kinds of diagnostics Delegen reports at
// generation time. Every diagnostic returned by the generator matches exactly
// one of them with [errors.Is]:
//
//	if errors.Is(err, delegenerrors.ErrMissingReceiver) {
//		// a method lacks a receiver while receivers are required
//	}
package delegenerrors

import "errors"

var (
	// ErrUnsupportedItemKind is reported for an interface item the generator
	// cannot forward, such as a method carrying its own code generation
	// directive. It never blocks the other items of the same interface.
	ErrUnsupportedItemKind = errors.New("unsupported item kind")

	// ErrMissingReceiver is reported for a method declared without a receiver
	// while receivers are required, or forwarded to a field of an interface
	// type whose zero value is nil. The method is replaced with an error
	// marker. The other methods are still generated.
	ErrMissingReceiver = errors.New("missing receiver")

	// ErrMalformedWiringArguments is reported when a field tag or a Wire
	// directive cannot be resolved into a (field, type, interface) tuple. Only
	// the offending directive is dropped.
	ErrMalformedWiringArguments = errors.New("malformed wiring arguments")
)

// Kinds returns all diagnostic kinds in a stable order.
func Kinds() []error {
	return []error{
		ErrUnsupportedItemKind,
		ErrMissingReceiver,
		ErrMalformedWiringArguments,
	}
}

// KindOf returns the diagnostic kind of err. It returns nil if err does not
// match any kind.
func KindOf(err error) error {
	for _, kind := range Kinds() {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
