package runtime

import (
	"strings"
)

func listMethods() MethodRegistry {
	return MethodRegistry{
		"@text": {
			Fn:          listText,
			Arity:       "0",
			Description: "Elements' @text, comma separated, in brackets",
		},
		"@list": {
			Fn:          func(b *Binding, this *Object, args Args) (*Object, error) { return this, nil },
			Arity:       "0",
			Description: "The receiver",
		},
		"@bool": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewBoolean(listLen(this) != 0), nil
			},
			Arity:       "0",
			Description: "False only when empty",
		},
		"len": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewNumber(float64(listLen(this))), nil
			},
			Arity:       "0",
			Description: "Number of elements",
		},
		"[]": {
			Fn:          listIndex,
			Arity:       "1-2",
			Description: "Element at an index, or the slice between two; negative indices count from the end",
		},
		"[]=": {
			Fn:          listSetIndex,
			Arity:       "2",
			Description: "Replace the element at an index",
		},
		"push": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				this.state.WithMut(func(s *objectState) {
					s.elems = append(s.elems, args...)
				})
				return this, nil
			},
			Arity:       "0+",
			Description: "Append the arguments, returning the list",
		},
		"pop": {
			Fn:          listPop,
			Arity:       "0",
			Description: "Remove and return the last element",
		},
		"+": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				rhs, err := args[0].ToList(b)
				if err != nil {
					return nil, err
				}
				elems, _ := this.List()
				return NewList(append(elems, rhs...)...), nil
			},
			Arity:       "1",
			Description: "Concatenation, converting the argument with @list",
		},
		"==": {
			Fn:          listEqual,
			Arity:       "1",
			Description: "Element-wise equality",
		},
		"join": {
			Fn:          listJoin,
			Arity:       "0-1",
			Description: "Elements' @text joined by a separator (default none)",
		},
		"map": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				elems, _ := this.List()
				out := make([]*Object, len(elems))
				for i, e := range elems {
					r, err := Call(b, args[0], e)
					if err != nil {
						return nil, err
					}
					out[i] = r
				}
				return NewList(out...), nil
			},
			Arity:       "1",
			Description: "New list of the function applied to each element",
		},
		"each": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				elems, _ := this.List()
				for _, e := range elems {
					if _, err := Call(b, args[0], e); err != nil {
						return nil, err
					}
				}
				return this, nil
			},
			Arity:       "1",
			Description: "Call the function with each element",
		},
	}
}

func listLen(o *Object) int {
	n := 0
	o.state.WithRef(func(s *objectState) { n = len(s.elems) })
	return n
}

func listText(b *Binding, this *Object, args Args) (*Object, error) {
	s, err := renderList(b, this, make(map[*Object]bool))
	if err != nil {
		return nil, err
	}
	return NewText(s), nil
}

// renderList renders nested lists that still use the built-in @text in
// place, so a list reached again while it is being rendered prints as [...].
func renderList(b *Binding, list *Object, seen map[*Object]bool) (string, error) {
	if seen[list] {
		return "[...]", nil
	}
	seen[list] = true
	defer delete(seen, list)

	elems, _ := list.List()
	parts := make([]string, len(elems))
	for i, e := range elems {
		nested, err := usesBuiltin(b, e, LitText, builtinListText)
		if err != nil {
			return "", err
		}
		var s string
		if nested {
			s, err = renderList(b, e, seen)
		} else {
			s, err = e.ToText(b)
		}
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

// usesBuiltin reports whether o is a list whose key resolves to fn.
func usesBuiltin(b *Binding, o *Object, key Literal, fn *NativeFunction) (bool, error) {
	if o.kind != KindList || fn == nil {
		return false, nil
	}
	v, found, err := o.lookup(b, key)
	if err != nil {
		return false, err
	}
	return found && v.native == fn, nil
}

func listIndex(b *Binding, this *Object, args Args) (*Object, error) {
	elems, _ := this.List()
	start, err := indexArg(b, args[0], len(elems))
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if start < 0 || start >= len(elems) {
			return nil, newIndexError(start, len(elems))
		}
		return elems[start], nil
	}
	stop, err := indexArg(b, args[1], len(elems))
	if err != nil {
		return nil, err
	}
	if start < 0 || stop > len(elems) || start > stop {
		return nil, newSliceError(start, stop, len(elems))
	}
	return NewList(elems[start:stop]...), nil
}

func listSetIndex(b *Binding, this *Object, args Args) (*Object, error) {
	i, err := indexArg(b, args[0], listLen(this))
	if err != nil {
		return nil, err
	}
	var n int
	ok := false
	this.state.WithMut(func(s *objectState) {
		n = len(s.elems)
		if i >= 0 && i < n {
			s.elems[i] = args[1]
			ok = true
		}
	})
	if !ok {
		return nil, newIndexError(i, n)
	}
	return args[1], nil
}

func listPop(b *Binding, this *Object, args Args) (*Object, error) {
	var last *Object
	this.state.WithMut(func(s *objectState) {
		if n := len(s.elems); n > 0 {
			last = s.elems[n-1]
			s.elems = s.elems[:n-1]
		}
	})
	if last == nil {
		return nil, newIndexError(-1, 0)
	}
	return last, nil
}

func listEqual(b *Binding, this *Object, args Args) (*Object, error) {
	eq, err := equalLists(b, this, args[0], make(map[listPair]bool))
	if err != nil {
		return nil, err
	}
	return NewBoolean(eq), nil
}

type listPair struct{ lhs, rhs *Object }

// equalLists compares element-wise. Nested lists that use the built-in ==
// are compared in place; a pair reached again while it is being compared
// counts as equal.
func equalLists(b *Binding, lhs, rhs *Object, seen map[listPair]bool) (bool, error) {
	pair := listPair{lhs, rhs}
	if seen[pair] {
		return true, nil
	}
	seen[pair] = true

	r, ok := rhs.List()
	if !ok {
		return false, nil
	}
	l, _ := lhs.List()
	if len(l) != len(r) {
		return false, nil
	}
	for i := range l {
		if l[i] == r[i] {
			continue
		}
		nested, err := usesBuiltin(b, l[i], LitEql, builtinListEqual)
		if err != nil {
			return false, err
		}
		var eq bool
		if nested {
			eq, err = equalLists(b, l[i], r[i], seen)
		} else {
			eq, err = l[i].Equals(b, r[i])
		}
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

func listJoin(b *Binding, this *Object, args Args) (*Object, error) {
	sep := ""
	if len(args) > 0 {
		var err error
		if sep, err = args[0].ToText(b); err != nil {
			return nil, err
		}
	}
	elems, _ := this.List()
	parts := make([]string, len(elems))
	for i, e := range elems {
		s, err := e.ToText(b)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return NewText(strings.Join(parts, sep)), nil
}
