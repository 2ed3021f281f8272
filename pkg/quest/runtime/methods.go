package runtime

// Methods shared by every object: the attribute protocol (Pristine), the
// default conversions and logic (Basic) and comparisons derived from `<=>`
// (Comparable).

func pristineMethods() MethodRegistry {
	return MethodRegistry{
		"__keys__": {
			Fn:          pristineKeys,
			Arity:       "0-1",
			Description: "List of own keys; with a truthy argument, the whole chain's",
		},
		"__get_attr__": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this.GetAttr(b, keyFromObject(args[0]))
			},
			Arity:       "1",
			Description: "Attribute lookup through the parent chain",
		},
		"__set_attr__": {
			Fn:          pristineSetAttr,
			Arity:       "2",
			Description: "Set an own attribute, returning the value",
		},
		"__has_attr__": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				ok, err := this.HasAttr(b, keyFromObject(args[0]))
				if err != nil {
					return nil, err
				}
				return NewBoolean(ok), nil
			},
			Arity:       "1",
			Description: "Whether an attribute resolves",
		},
		"__del_attr__": {
			Fn:          pristineDelAttr,
			Arity:       "1",
			Description: "Remove an own attribute, returning its value",
		},
		"__call_attr__": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this.CallAttr(b, keyFromObject(args[0]), args[1:]...)
			},
			Arity:       "1+",
			Description: "Call an attribute with this object as receiver",
		},
		".": {
			Fn:          pristineDot,
			Arity:       "1",
			Description: "Attribute access; functions come back bound to the receiver",
		},
		".=": {
			Fn:          pristineSetAttr,
			Arity:       "2",
			Description: "Attribute assignment",
		},
		".~": {
			Fn:          pristineDelAttr,
			Arity:       "1",
			Description: "Attribute deletion",
		},
		"::": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this.GetAttr(b, keyFromObject(args[0]))
			},
			Arity:       "1",
			Description: "Raw attribute access without binding",
		},
		"instance_exec": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return ObjectValue(args[0]).Call(b, this, args[1:])
			},
			Arity:       "1+",
			Description: "Call a block with this object as its receiver",
		},
	}
}

func pristineKeys(b *Binding, this *Object, args Args) (*Object, error) {
	inherited := false
	if len(args) > 0 {
		var err error
		if inherited, err = args[0].Truthy(b); err != nil {
			return nil, err
		}
	}
	keys := this.Keys(inherited)
	out := make([]*Object, len(keys))
	for i, k := range keys {
		out[i] = keyObject(k)
	}
	return NewList(out...), nil
}

// keyObject turns a Key back into a language value.
func keyObject(k Key) *Object {
	if o, ok := k.(*Object); ok {
		return o
	}
	return NewText(k.String())
}

func pristineSetAttr(b *Binding, this *Object, args Args) (*Object, error) {
	if err := this.SetAttr(b, keyFromObject(args[0]), args[1]); err != nil {
		return nil, err
	}
	return args[1], nil
}

func pristineDelAttr(b *Binding, this *Object, args Args) (*Object, error) {
	return this.DelAttr(b, keyFromObject(args[0]))
}

func pristineDot(b *Binding, this *Object, args Args) (*Object, error) {
	v, err := this.GetValue(b, keyFromObject(args[0]))
	if err != nil {
		return nil, err
	}
	obj := v.Object()
	switch obj.kind {
	case KindNativeFunction, KindBlock:
		return NewBoundFunction(this, v), nil
	}
	return obj, nil
}

func basicMethods() MethodRegistry {
	return MethodRegistry{
		"@bool": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return True(), nil
			},
			Arity:       "0",
			Description: "Objects are truthy by default",
		},
		"@text": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewText(this.String()), nil
			},
			Arity:       "0",
			Description: "Text form",
		},
		"inspect": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewText(this.String()), nil
			},
			Arity:       "0",
			Description: "Debug form, never runs user code",
		},
		"==": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewBoolean(this == args[0]), nil
			},
			Arity:       "1",
			Description: "Identity comparison",
		},
		"!=": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				eq, err := this.Equals(b, args[0])
				if err != nil {
					return nil, err
				}
				return NewBoolean(!eq), nil
			},
			Arity:       "1",
			Description: "Negation of ==",
		},
		"!": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				t, err := this.Truthy(b)
				if err != nil {
					return nil, err
				}
				return NewBoolean(!t), nil
			},
			Arity:       "0",
			Description: "Logical not",
		},
		"&&": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				t, err := this.Truthy(b)
				if err != nil || !t {
					return this, err
				}
				return args[0], nil
			},
			Arity:       "1",
			Description: "This if falsey, else the argument",
		},
		"||": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				t, err := this.Truthy(b)
				if err != nil || t {
					return this, err
				}
				return args[0], nil
			},
			Arity:       "1",
			Description: "This if truthy, else the argument",
		},
		"clone": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this.Clone(), nil
			},
			Arity:       "0",
			Description: "Copy-on-write copy with a new identity",
		},
		"itself": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this, nil
			},
			Arity:       "0",
			Description: "The receiver",
		},
		"hash": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewNumber(float64(this.id)), nil
			},
			Arity:       "0",
			Description: "Identity hash",
		},
	}
}

func comparableMethods() MethodRegistry {
	derive := func(name string, test func(int) bool) MethodEntry {
		return MethodEntry{
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				c, err := Compare(b, this, args[0])
				if err != nil {
					return nil, err
				}
				return NewBoolean(test(c)), nil
			},
			Arity:       "1",
			Description: name + " derived from <=>",
		}
	}
	return MethodRegistry{
		"<":  derive("<", func(c int) bool { return c < 0 }),
		"<=": derive("<=", func(c int) bool { return c <= 0 }),
		">":  derive(">", func(c int) bool { return c > 0 }),
		">=": derive(">=", func(c int) bool { return c >= 0 }),
	}
}
