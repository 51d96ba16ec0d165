package synth

import (
	"go/types"

	"github.com/sublee/delegen/internal/delegen/model"
)

// ClassifyReceiver returns how a function takes its instance given its first
// parameter. first may be nil for a function without parameters. It never
// fails: a function whose first parameter is not a receiver is
// [model.ReceiverNone].
func ClassifyReceiver(first *model.Param) model.ReceiverKind {
	if first == nil || !first.Receiver {
		return model.ReceiverNone
	}
	return borrowKind(first.Borrow)
}

// ClassifySelfParam reports whether a non-receiver parameter holds another
// instance of the implementing type, and how. Such a parameter is exactly the
// self type parameter or a pointer to it. The wrapper passes its delegate
// instead, reached by the accessor for the returned kind.
func ClassifySelfParam(p model.Param, self *types.TypeParam) (model.ReceiverKind, bool) {
	if self == nil || p.Receiver {
		return model.ReceiverNone, false
	}

	switch t := types.Unalias(p.Type).(type) {
	case *types.TypeParam:
		if t == self {
			return model.ReceiverValue, true
		}

	case *types.Pointer:
		if tp, ok := types.Unalias(t.Elem()).(*types.TypeParam); ok && tp == self {
			if p.Borrow == model.BorrowShared {
				return model.ReceiverRef, true
			}
			return model.ReceiverMutRef, true
		}
	}

	return model.ReceiverNone, false
}

func borrowKind(b model.Borrow) model.ReceiverKind {
	switch b {
	case model.BorrowShared:
		return model.ReceiverRef
	case model.BorrowExclusive:
		return model.ReceiverMutRef
	}
	return model.ReceiverValue
}
