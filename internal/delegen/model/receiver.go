package model

//go:generate go tool stringer -type=ReceiverKind -linecomment -output=receiver_string.go

// ReceiverKind tells how a function takes the instance it is called on.
type ReceiverKind int

const (
	ReceiverNone   ReceiverKind = iota // none
	ReceiverValue                      // value
	ReceiverRef                        // ref
	ReceiverMutRef                     // mut
)

// ReceiverKinds lists all receiver kinds.
var ReceiverKinds = []ReceiverKind{ReceiverNone, ReceiverValue, ReceiverRef, ReceiverMutRef}

// ParseReceiverKind returns the receiver kind whose name is s.
func ParseReceiverKind(s string) (ReceiverKind, bool) {
	for _, kind := range ReceiverKinds {
		if kind.String() == s {
			return kind, true
		}
	}
	return ReceiverNone, false
}

// Borrow tells how a parameter holds an instance of the implementing type.
type Borrow int

const (
	BorrowOwned     Borrow = iota // the instance is moved in
	BorrowShared                  // read-only reference
	BorrowExclusive               // mutable reference
)
