package directives

// Painter paints.
//
//delegen:delegated
//delegen:color blue // want `unknown directive "color" on interface Painter`
type Painter interface { // want Painter:"delegated Painter"
	//delegen:receiver sometimes // want `unknown receiver kind "sometimes" of Paint; want one of`
	Paint()

	//delegen:shared that
	Blend(other *int) // want `shared parameter that is not a parameter of Blend`

	//delegen:fast // want `unknown directive "fast" on method Stroke`
	Stroke()

	//delegen:receiver mut // modifies the canvas
	Clear()
}
