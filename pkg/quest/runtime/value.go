package runtime

import (
	"sync"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// NativeFunc is the signature for all built-in methods. b is the caller's
// binding (nil when called from Go outside any frame), this is the receiver.
type NativeFunc func(b *Binding, this *Object, args Args) (*Object, error)

// NativeFunction is a named NativeFunc. Its object form is created once, on
// first request, so repeated lookups of the same method return the same object.
type NativeFunction struct {
	Name string
	Fn   NativeFunc

	once sync.Once
	obj  *Object
}

// Object returns the NativeFunction object wrapping f.
func (f *NativeFunction) Object() *Object {
	f.once.Do(func() {
		f.obj = newObject(KindNativeFunction, f, Class(KindNativeFunction))
	})
	return f.obj
}

// Value is an attribute's stored payload: a native function or an object.
type Value struct {
	native *NativeFunction
	object *Object
}

// NativeValue wraps fn as a Value.
func NativeValue(name string, fn NativeFunc) Value {
	return Value{native: &NativeFunction{Name: name, Fn: fn}}
}

// ObjectValue wraps o as a Value.
func ObjectValue(o *Object) Value {
	return Value{object: o}
}

// IsNative reports whether v holds a native function.
func (v Value) IsNative() bool { return v.native != nil }

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool { return v.native == nil && v.object == nil }

// Native returns the native function, or nil.
func (v Value) Native() *NativeFunction { return v.native }

// Object returns v as an object, wrapping a native function if needed.
func (v Value) Object() *Object {
	if v.native != nil {
		return v.native.Object()
	}
	return v.object
}

// Call invokes v with owner as the receiver. A native function is called
// directly; an object is called through its own `()` attribute with owner
// prepended to args. Objects whose `()` is another object are followed until
// a native function is reached, each hop counting as a frame.
func (v Value) Call(b *Binding, owner *Object, args Args) (*Object, error) {
	if v.IsZero() {
		return nil, qerrors.Internal("call of an empty value")
	}
	if v.native != nil {
		return v.native.Fn(b, owner, args)
	}

	depth := 0
	if b != nil {
		depth = b.depth
	}
	limit := interpOf(b).limits.MaxStackDepth

	// owners holds the receivers to prepend, innermost last.
	obj, owners := v.object, Args{owner}
	for {
		if limit > 0 && depth+len(owners) >= limit {
			return nil, newStackDepthError(limit)
		}
		fn, found, err := obj.lookup(b, LitCall)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, newNotCallableError(obj)
		}
		if fn.native != nil {
			full := make(Args, 0, len(owners)+len(args))
			for i := len(owners) - 1; i >= 0; i-- {
				full = append(full, owners[i])
			}
			full = append(full, args...)
			return fn.native.Fn(b, obj, full)
		}
		if fn.IsZero() {
			return nil, qerrors.Internal("call of an empty value")
		}
		owners = append(owners, obj)
		obj = fn.object
	}
}

// Args is an ordered argument list.
type Args []*Object

// Arg returns the argument at position i or a KeyError naming it.
func (a Args) Arg(i int) (*Object, error) {
	if i < 0 || i >= len(a) {
		return nil, qerrors.New("KEY-0003", map[string]any{"Position": i})
	}
	return a[i], nil
}

// Or returns the argument at position i, or def when it is absent.
func (a Args) Or(i int, def *Object) *Object {
	if i < 0 || i >= len(a) {
		return def
	}
	return a[i]
}
