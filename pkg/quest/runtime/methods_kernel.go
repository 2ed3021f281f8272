package runtime

import (
	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// Kernel is the parent of every root scope, so its attributes read as global
// functions.
func kernelMethods() MethodRegistry {
	return MethodRegistry{
		"if": {
			Fn:          kernelIf,
			Arity:       "2-3",
			Description: "Choose the second or third argument; a chosen block is called",
		},
		"while": {
			Fn:          kernelWhile,
			Arity:       "2",
			Description: "Call the body block while the condition block is truthy",
		},
		"disp": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return kernelWrite(b, args, true)
			},
			Arity:       "0+",
			Description: "Write the arguments' text, space separated, then a newline",
		},
		"print": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return kernelWrite(b, args, false)
			},
			Arity:       "0+",
			Description: "Write the arguments' text, space separated",
		},
		"return": {
			Fn:          kernelReturn,
			Arity:       "0-2",
			Description: "Return a value from the current binding, or one given by scope or frame count",
		},
		"throw": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return nil, NewException(args.Or(0, Null()))
			},
			Arity:       "0-1",
			Description: "Raise an exception carrying the argument",
		},
		"assert": {
			Fn:          kernelAssert,
			Arity:       "1-2",
			Description: "Fail with a ValueError unless the argument is truthy",
		},
		"object": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				obj := NewPlain()
				if len(args) > 0 {
					if _, err := ObjectValue(args[0]).Call(b, obj, nil); err != nil {
						return nil, err
					}
				}
				return obj, nil
			},
			Arity:       "0-1",
			Description: "New plain object, optionally initialised by a block run with it as receiver",
		},
		"list": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewList(args...), nil
			},
			Arity:       "0+",
			Description: "List of the arguments",
		},
		"__stack__": {
			Fn:          kernelStack,
			Arity:       "0",
			Description: "Argument lists of the live bindings, root first",
		},
		"__scope__": {
			Fn:          kernelScope,
			Arity:       "0-1",
			Description: "Scope of the current binding, or of the one n frames up",
		},
	}
}

func kernelIf(b *Binding, this *Object, args Args) (*Object, error) {
	cond, err := args[0].Truthy(b)
	if err != nil {
		return nil, err
	}
	chosen := Null()
	if cond {
		chosen = args[1]
	} else if len(args) > 2 {
		chosen = args[2]
	}
	if chosen.kind == KindBlock {
		return Call(b, chosen)
	}
	return chosen, nil
}

func kernelWhile(b *Binding, this *Object, args Args) (*Object, error) {
	result := Null()
	for {
		c, err := Call(b, args[0])
		if err != nil {
			return nil, err
		}
		ok, err := c.Truthy(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return result, nil
		}
		if result, err = Call(b, args[1]); err != nil {
			return nil, err
		}
	}
}

func kernelWrite(b *Binding, args Args, newline bool) (*Object, error) {
	parts := make([]any, len(args))
	for i, a := range args {
		s, err := a.ToText(b)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	log := interpOf(b).Logger()
	if newline {
		log.LogLine(parts...)
	} else {
		log.Log(parts...)
	}
	return args.Or(len(args)-1, Null()), nil
}

func kernelReturn(b *Binding, this *Object, args Args) (*Object, error) {
	target := b
	if len(args) > 1 {
		var err error
		if target, err = bindingOf(b, args[1]); err != nil {
			return nil, err
		}
	}
	if target == nil {
		return nil, qerrors.Messaged("return outside of any binding")
	}
	return nil, NewReturn(target, args.Or(0, Null()))
}

// bindingOf resolves a return target given as a scope or a frame count.
func bindingOf(b *Binding, to *Object) (*Binding, error) {
	switch to.kind {
	case KindScope:
		return to.prim.(*Binding), nil
	case KindNumber:
		if b == nil {
			return nil, qerrors.Messaged("return outside of any binding")
		}
		return b.Up(int(to.prim.(float64)))
	}
	return nil, newTypeError("return", "Scope or Number", to)
}

func kernelAssert(b *Binding, this *Object, args Args) (*Object, error) {
	ok, err := args[0].Truthy(b)
	if err != nil {
		return nil, err
	}
	if ok {
		return args[0], nil
	}
	msg := ""
	if len(args) > 1 {
		if msg, err = args[1].ToText(b); err != nil {
			return nil, err
		}
	}
	return nil, qerrors.New("VALUE-0006", map[string]any{"Message": msg})
}

func kernelStack(b *Binding, this *Object, args Args) (*Object, error) {
	if b == nil {
		return NewList(), nil
	}
	frames := b.Stack()
	out := make([]*Object, len(frames))
	for i, a := range frames {
		out[i] = NewList(a...)
	}
	return NewList(out...), nil
}

func kernelScope(b *Binding, this *Object, args Args) (*Object, error) {
	if b == nil {
		return nil, qerrors.Messaged("no current binding")
	}
	n := 0
	if len(args) > 0 {
		f, err := args[0].ToNumber(b)
		if err != nil {
			return nil, err
		}
		n = int(f)
	}
	f, err := b.Up(n)
	if err != nil {
		return nil, err
	}
	return f.scope, nil
}
