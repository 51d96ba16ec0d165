package selfandassoc

//delegen:delegated
//delegen:self Me
//delegen:assoc Item,Missing
type Iter[T, Item any] interface { // want Iter:"delegated Iter" `self type parameter Me is not a type parameter of Iter` `associated type Missing is not a type parameter of Iter`
	Next() (Item, bool)
	Reset(seed T)
}

//delegen:delegated
//delegen:assoc Self
type Cloner[Self any] interface { // want Cloner:"delegated Cloner" `self type parameter Self cannot be an associated type`
	Clone() Self
}

// Merger uses the default name of the self type parameter.
//
//delegen:delegated
type Merger[Self any] interface { // want Merger:"delegated Merger"
	//delegen:receiver mut
	//delegen:shared other
	Merge(other *Self)
}
