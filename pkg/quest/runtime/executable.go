package runtime

// Executable is anything the core can run within a binding: expression
// trees produced by a parser, or hand-built ast nodes.
type Executable interface {
	Execute(b *Binding) (*Object, error)
}

// Body is a frame's work.
type Body func(b *Binding) (*Object, error)

// ExecutableFunc adapts a function to Executable.
type ExecutableFunc func(b *Binding) (*Object, error)

// Execute calls f.
func (f ExecutableFunc) Execute(b *Binding) (*Object, error) { return f(b) }
