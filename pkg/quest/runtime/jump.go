package runtime

import (
	"errors"
	"strconv"
)

// JumpKind distinguishes control-flow signals.
type JumpKind uint8

const (
	JumpReturn JumpKind = iota
	JumpException
	JumpYield
)

func (k JumpKind) String() string {
	switch k {
	case JumpReturn:
		return "return"
	case JumpException:
		return "exception"
	case JumpYield:
		return "yield"
	}
	return "jump(" + strconv.Itoa(int(k)) + ")"
}

// Jump unwinds the binding stack. It travels the error channel but is not a
// failure: a Return is absorbed by the binding it names and an Exception by
// whatever catches it.
type Jump struct {
	Kind   JumpKind
	To     *Binding // Return target
	Result *Object  // Return value, nil for none
	Value  *Object  // Exception payload
}

func (j *Jump) Error() string {
	switch j.Kind {
	case JumpReturn:
		if j.To == nil {
			return "return"
		}
		return "return to binding at depth " + strconv.Itoa(j.To.depth)
	case JumpException:
		return "uncaught exception: " + j.Value.String()
	}
	return j.Kind.String()
}

// NewReturn creates a return addressed to to.
func NewReturn(to *Binding, result *Object) *Jump {
	return &Jump{Kind: JumpReturn, To: to, Result: result}
}

// NewException creates an exception carrying value.
func NewException(value *Object) *Jump {
	return &Jump{Kind: JumpException, Value: value}
}

// AsJump extracts a Jump from err.
func AsJump(err error) (*Jump, bool) {
	var j *Jump
	if errors.As(err, &j) {
		return j, true
	}
	return nil, false
}

// IsReturnTo reports whether err is a return addressed to b.
func IsReturnTo(err error, b *Binding) bool {
	j, ok := AsJump(err)
	return ok && j.Kind == JumpReturn && j.To == b
}
