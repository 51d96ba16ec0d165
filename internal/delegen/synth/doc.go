// Package synth synthesizes delegation code from [model] descriptions.
//
// [Analyze] classifies every item of a delegated interface: the receiver
// kind of each method ([ClassifyReceiver]) and the parameters which hold
// another instance of the implementing type ([ClassifySelfParam]). Failures
// are kept per item so one bad method never hides the others.
// [AnalyzeWiring] narrows the result to a wired field. Items without a
// receiver fail when the field is an interface.
//
// The writers render Go code:
//
//   - [WriteAccess] renders the access interface DelegatedI once per
//     interface, in the package declaring it.
//   - [WriteFieldWiring] renders the three accessors of a wired field.
//   - [WriteForwarding] renders one method per interface item, each calling
//     the same method on the delegate reached by the accessor matching the
//     receiver kind.
//
// Go has no blanket implementations, so a forwarding implementation is
// rendered for every (aggregate, interface) pair wired by the user instead of
// once per interface.
package synth
