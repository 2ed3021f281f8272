package runtime

import "math"

// Binary evaluates lhs op rhs by calling lhs's op attribute.
func Binary(b *Binding, op Literal, lhs, rhs *Object) (*Object, error) {
	return lhs.CallAttr(b, op, rhs)
}

// Unary evaluates op operand by calling operand's op attribute.
func Unary(b *Binding, op Literal, operand *Object) (*Object, error) {
	return operand.CallAttr(b, op)
}

// Call calls callee with the current receiver as owner.
func Call(b *Binding, callee *Object, args ...*Object) (*Object, error) {
	owner := Null()
	if b != nil {
		owner = b.This()
	}
	return ObjectValue(callee).Call(b, owner, args)
}

// Index evaluates target[args...].
func Index(b *Binding, target *Object, args ...*Object) (*Object, error) {
	return target.CallAttr(b, LitIndex, args...)
}

// SetIndex evaluates target[args...] = value; value is the last argument.
func SetIndex(b *Binding, target *Object, args ...*Object) (*Object, error) {
	return target.CallAttr(b, LitIndexS, args...)
}

// Compare calls lhs's `<=>` and returns its sign.
func Compare(b *Binding, lhs, rhs *Object) (int, error) {
	r, err := lhs.CallAttr(b, LitCmp, rhs)
	if err != nil {
		return 0, err
	}
	f, ok := r.Number()
	if !ok || math.IsNaN(f) {
		return 0, newConversionResultError(LitCmp, "Number", r)
	}
	switch {
	case f < 0:
		return -1, nil
	case f > 0:
		return 1, nil
	}
	return 0, nil
}
