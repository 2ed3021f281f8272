package runtime

import (
	"math"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

func nullMethods() MethodRegistry {
	return MethodRegistry{
		"@bool": {Fn: constant(False), Arity: "0", Description: "Always false"},
		"@text": {Fn: constant(func() *Object { return NewText("null") }), Arity: "0", Description: "\"null\""},
		"@num":  {Fn: constant(func() *Object { return NewNumber(0) }), Arity: "0", Description: "Always 0"},
		"@list": {Fn: constant(func() *Object { return NewList() }), Arity: "0", Description: "Always empty"},
		"==": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewBoolean(args[0].kind == KindNull), nil
			},
			Arity:       "1",
			Description: "Whether the argument is null",
		},
	}
}

func constant(f func() *Object) NativeFunc {
	return func(*Binding, *Object, Args) (*Object, error) { return f(), nil }
}

func booleanMethods() MethodRegistry {
	logic := func(name string, op func(x, y bool) bool) MethodEntry {
		return MethodEntry{
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				y, err := args[0].Truthy(b)
				if err != nil {
					return nil, err
				}
				return NewBoolean(op(this.prim.(bool), y)), nil
			},
			Arity:       "1",
			Description: "Boolean " + name,
		}
	}
	return MethodRegistry{
		"@bool": {
			Fn:          func(b *Binding, this *Object, args Args) (*Object, error) { return this, nil },
			Arity:       "0",
			Description: "The receiver",
		},
		"@num": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				if this.prim.(bool) {
					return NewNumber(1), nil
				}
				return NewNumber(0), nil
			},
			Arity:       "0",
			Description: "1 or 0",
		},
		"@text": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewText(this.String()), nil
			},
			Arity:       "0",
			Description: "\"true\" or \"false\"",
		},
		"==": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				y, ok := args[0].Boolean()
				return NewBoolean(ok && y == this.prim.(bool)), nil
			},
			Arity:       "1",
			Description: "Equal to another boolean",
		},
		"<=>": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				y, ok := args[0].Boolean()
				if !ok {
					return nil, newTypeError("Boolean.<=>", "Boolean", args[0])
				}
				return NewNumber(float64(boolInt(this.prim.(bool)) - boolInt(y))), nil
			},
			Arity:       "1",
			Description: "false sorts before true",
		},
		"!": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewBoolean(!this.prim.(bool)), nil
			},
			Arity:       "0",
			Description: "Logical not",
		},
		"&": logic("and", func(x, y bool) bool { return x && y }),
		"|": logic("or", func(x, y bool) bool { return x || y }),
		"^": logic("xor", func(x, y bool) bool { return x != y }),
		"hash": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewNumber(float64(boolInt(this.prim.(bool)))), nil
			},
			Arity:       "0",
			Description: "1 or 0",
		},
	}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func numberMethods() MethodRegistry {
	arith := func(name string, op func(x, y float64) (float64, error)) MethodEntry {
		return MethodEntry{
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				y, err := args[0].ToNumber(b)
				if err != nil {
					return nil, err
				}
				r, err := op(this.prim.(float64), y)
				if err != nil {
					return nil, err
				}
				return NewNumber(r), nil
			},
			Arity:       "1",
			Description: "Arithmetic " + name + ", converting the argument with @num",
		}
	}
	bitwise := func(name string, op func(x, y int64) (int64, error)) MethodEntry {
		return MethodEntry{
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				x, err := integerOf(this)
				if err != nil {
					return nil, err
				}
				yf, err := args[0].ToNumber(b)
				if err != nil {
					return nil, err
				}
				y, err := integerOf(NewNumber(yf))
				if err != nil {
					return nil, err
				}
				r, err := op(x, y)
				if err != nil {
					return nil, err
				}
				return NewNumber(float64(r)), nil
			},
			Arity:       "1",
			Description: "Integer " + name,
		}
	}
	unary := func(desc string, op func(float64) float64) MethodEntry {
		return MethodEntry{
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewNumber(op(this.prim.(float64))), nil
			},
			Arity:       "0",
			Description: desc,
		}
	}

	return MethodRegistry{
		"+": arith("addition", func(x, y float64) (float64, error) { return x + y, nil }),
		"-": arith("subtraction", func(x, y float64) (float64, error) { return x - y, nil }),
		"*": arith("multiplication", func(x, y float64) (float64, error) { return x * y, nil }),
		"/": arith("division", func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, qerrors.New("VALUE-0002", nil)
			}
			return x / y, nil
		}),
		"%": arith("remainder", func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, qerrors.New("VALUE-0002", nil)
			}
			return math.Mod(x, y), nil
		}),
		"**": arith("power", func(x, y float64) (float64, error) { return math.Pow(x, y), nil }),

		"&": bitwise("and", func(x, y int64) (int64, error) { return x & y, nil }),
		"|": bitwise("or", func(x, y int64) (int64, error) { return x | y, nil }),
		"^": bitwise("xor", func(x, y int64) (int64, error) { return x ^ y, nil }),
		"<<": bitwise("left shift", func(x, y int64) (int64, error) {
			if y < 0 {
				return 0, newInvalidValueError("<<", NewNumber(float64(y)))
			}
			return x << uint64(y), nil
		}),
		">>": bitwise("right shift", func(x, y int64) (int64, error) {
			if y < 0 {
				return 0, newInvalidValueError(">>", NewNumber(float64(y)))
			}
			return x >> uint64(y), nil
		}),
		"~": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				x, err := integerOf(this)
				if err != nil {
					return nil, err
				}
				return NewNumber(float64(^x)), nil
			},
			Arity:       "0",
			Description: "Integer complement",
		},

		"-@":    unary("Negation", func(x float64) float64 { return -x }),
		"+@":    unary("The number itself", func(x float64) float64 { return x }),
		"abs":   unary("Absolute value", math.Abs),
		"floor": unary("Round down", math.Floor),
		"ceil":  unary("Round up", math.Ceil),
		"round": unary("Round half away from zero", math.Round),
		"sqrt":  unary("Square root", math.Sqrt),

		"==": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				y, ok := args[0].Number()
				return NewBoolean(ok && y == this.prim.(float64)), nil
			},
			Arity:       "1",
			Description: "Equal to another number",
		},
		"<=>": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				y, ok := args[0].Number()
				if !ok {
					return nil, newTypeError("Number.<=>", "Number", args[0])
				}
				x := this.prim.(float64)
				switch {
				case x < y:
					return NewNumber(-1), nil
				case x > y:
					return NewNumber(1), nil
				case x == y:
					return NewNumber(0), nil
				}
				return NewNumber(math.NaN()), nil
			},
			Arity:       "1",
			Description: "Three-way comparison",
		},
		"@text": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewText(formatNumber(this.prim.(float64))), nil
			},
			Arity:       "0",
			Description: "Decimal text; integral values have no fraction",
		},
		"@num": {
			Fn:          func(b *Binding, this *Object, args Args) (*Object, error) { return this, nil },
			Arity:       "0",
			Description: "The receiver",
		},
		"@bool": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewBoolean(this.prim.(float64) != 0), nil
			},
			Arity:       "0",
			Description: "False only for zero",
		},
		"hash": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewNumber(float64(math.Float64bits(this.prim.(float64)) >> 11)), nil
			},
			Arity:       "0",
			Description: "Hash of the value",
		},
		"times": {
			Fn:          numberTimes,
			Arity:       "1",
			Description: "Call the argument with 0 through n-1",
		},
	}
}

// integerOf returns a Number's value when it is integral.
func integerOf(o *Object) (int64, error) {
	f, ok := o.Number()
	if !ok {
		return 0, newTypeError("integer operation", "Number", o)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, newConversionError(o, "an integer")
	}
	return int64(f), nil
}

func numberTimes(b *Binding, this *Object, args Args) (*Object, error) {
	n, err := integerOf(this)
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < n; i++ {
		if _, err := Call(b, args[0], NewNumber(float64(i))); err != nil {
			return nil, err
		}
	}
	return this, nil
}
