package unsupporteditems

//delegen:delegated
type Renderer interface { // want Renderer:"delegated Renderer"
	Render() string

	//go:generate stringer -type=Mode
	Mode() int // want `Mode of Renderer has a nested code generation directive "go:generate stringer -type=Mode" which cannot be delegated`

	//delegen:const
	Version(major int) string // want `constant Version of Renderer must have exactly one result and no parameters`

	//delegen:const
	Name() string
}

// Sizer is intact even though Renderer fails.
//
//delegen:delegated
type Sizer interface { // want Sizer:"delegated Sizer"
	Size() int
}
