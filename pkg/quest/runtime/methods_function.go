package runtime

// Callables. Each `()` receives the owner of the call as its first argument.

func nativeFunctionMethods() MethodRegistry {
	return MethodRegistry{
		"()": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this.prim.(*NativeFunction).Fn(b, args[0], args[1:])
			},
			Arity:       "1+",
			Description: "Call with the owner as receiver",
		},
		"name": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewText(this.prim.(*NativeFunction).Name), nil
			},
			Arity:       "0",
			Description: "Registered name",
		},
	}
}

func boundFunctionMethods() MethodRegistry {
	return MethodRegistry{
		"()": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				bf := this.prim.(*boundFunction)
				return bf.fn.Call(b, bf.owner, args[1:])
			},
			Arity:       "1+",
			Description: "Call with the bound owner, ignoring the caller's",
		},
		"owner": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return this.prim.(*boundFunction).owner, nil
			},
			Arity:       "0",
			Description: "The bound receiver",
		},
	}
}

func blockMethods() MethodRegistry {
	return MethodRegistry{
		"()": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				blk := this.prim.(*block)
				return pushFrame(b, blk.scope, args[0], args[1:], blk.body.Execute)
			},
			Arity:       "1+",
			Description: "Run the body in a new binding whose scope inherits from where the block was written",
		},
	}
}
