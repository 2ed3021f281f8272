package runtime

import (
	"sync/atomic"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// Binding is one call frame: the receiver, the arguments and a link to the
// caller. Locals live on the frame's scope object, whose parent is the
// lexically enclosing scope, so variable lookup is attribute lookup.
type Binding struct {
	this   *Object
	args   Args
	parent *Binding
	scope  *Object
	interp *Interp
	depth  int
	exited atomic.Bool
}

// This returns the receiver, or null for a frame without one.
func (b *Binding) This() *Object {
	if b.this == nil {
		return Null()
	}
	return b.this
}

// HasThis reports whether the frame has a receiver.
func (b *Binding) HasThis() bool { return b.this != nil }

// Args returns the frame's arguments.
func (b *Binding) Args() Args { return b.args }

// Parent returns the calling frame, or nil at the root.
func (b *Binding) Parent() *Binding { return b.parent }

// Scope returns the object holding the frame's locals.
func (b *Binding) Scope() *Object { return b.scope }

// Interp returns the interpreter the frame runs under.
func (b *Binding) Interp() *Interp { return b.interp }

// Depth is 0 for the root frame.
func (b *Binding) Depth() int { return b.depth }

// Exited reports whether the frame has been popped.
func (b *Binding) Exited() bool { return b.exited.Load() }

// Stack returns the argument lists of the live frames, root first.
func (b *Binding) Stack() []Args {
	out := make([]Args, b.depth+1)
	for f := b; f != nil; f = f.parent {
		out[f.depth] = f.args
	}
	return out
}

// Up returns the frame n levels above b; Up(0) is b.
func (b *Binding) Up(n int) (*Binding, error) {
	f := b
	for i := 0; i < n && f != nil; i++ {
		f = f.parent
	}
	if n < 0 || f == nil {
		return nil, qerrors.New("KEY-0005", map[string]any{"Depth": n, "Len": b.depth + 1})
	}
	return f, nil
}

// Arg resolves the positional name _n: _0 is the receiver, _1 the first
// argument and so on.
func (b *Binding) Arg(n int) (*Object, error) {
	if n == 0 {
		return b.This(), nil
	}
	return b.args.Arg(n - 1)
}

// NewStackframe runs body in a child frame whose scope inherits from b's.
func (b *Binding) NewStackframe(this *Object, args Args, body Body) (*Object, error) {
	return b.interp.push(b, b.scope, this, args, body)
}

// NewClosureFrame runs body in a child frame whose scope inherits from
// lexical, the scope a block captured when it was created.
func (b *Binding) NewClosureFrame(lexical, this *Object, args Args, body Body) (*Object, error) {
	return b.interp.push(b, lexical, this, args, body)
}

func (b *Binding) String() string {
	return b.scope.String()
}

// interpOf returns the interpreter b runs under, or the default one when
// called outside any frame.
func interpOf(b *Binding) *Interp {
	if b == nil || b.interp == nil {
		return DefaultInterp()
	}
	return b.interp
}

// pushFrame pushes under b, or a root frame when b is nil.
func pushFrame(b *Binding, lexical, this *Object, args Args, body Body) (*Object, error) {
	if b == nil {
		return DefaultInterp().push(nil, lexical, this, args, body)
	}
	return b.NewClosureFrame(lexical, this, args, body)
}
