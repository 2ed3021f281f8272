package runtime

import (
	"hash/fnv"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// maxTextLen bounds the size of text built by repetition.
const maxTextLen = 1 << 30

func textMethods() MethodRegistry {
	mapper := func(desc string, f func(string) string) MethodEntry {
		return MethodEntry{
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewText(f(this.prim.(string))), nil
			},
			Arity:       "0",
			Description: desc,
		}
	}

	return MethodRegistry{
		"+": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				s, err := args[0].ToText(b)
				if err != nil {
					return nil, err
				}
				return NewText(this.prim.(string) + s), nil
			},
			Arity:       "1",
			Description: "Concatenation, converting the argument with @text",
		},
		"*": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				f, err := args[0].ToNumber(b)
				if err != nil {
					return nil, err
				}
				n, err := integerOf(NewNumber(f))
				if err != nil {
					return nil, err
				}
				str := this.prim.(string)
				if n < 0 || (len(str) > 0 && n > maxTextLen/int64(len(str))) {
					return nil, newInvalidValueError("Text.*", args[0])
				}
				if len(str) == 0 {
					return NewText(""), nil
				}
				return NewText(strings.Repeat(str, int(n))), nil
			},
			Arity:       "1",
			Description: "Repetition",
		},
		"==": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				s, ok := args[0].Text()
				return NewBoolean(ok && s == this.prim.(string)), nil
			},
			Arity:       "1",
			Description: "Equal to another text",
		},
		"<=>": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				s, ok := args[0].Text()
				if !ok {
					return nil, newTypeError("Text.<=>", "Text", args[0])
				}
				return NewNumber(float64(strings.Compare(this.prim.(string), s))), nil
			},
			Arity:       "1",
			Description: "Lexical three-way comparison",
		},
		"@text": {
			Fn:          func(b *Binding, this *Object, args Args) (*Object, error) { return this, nil },
			Arity:       "0",
			Description: "The receiver",
		},
		"@num": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				f, err := strconv.ParseFloat(strings.TrimSpace(this.prim.(string)), 64)
				if err != nil {
					return nil, newConversionError(this, "Number")
				}
				return NewNumber(f), nil
			},
			Arity:       "0",
			Description: "Parse as a number",
		},
		"@bool": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewBoolean(this.prim.(string) != ""), nil
			},
			Arity:       "0",
			Description: "False only when empty",
		},
		"@list": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				s := this.prim.(string)
				out := make([]*Object, 0, utf8.RuneCountInString(s))
				for _, r := range s {
					out = append(out, NewText(string(r)))
				}
				return NewList(out...), nil
			},
			Arity:       "0",
			Description: "List of characters",
		},
		"len": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				return NewNumber(float64(utf8.RuneCountInString(this.prim.(string)))), nil
			},
			Arity:       "0",
			Description: "Number of characters",
		},
		"[]": {
			Fn:          textIndex,
			Arity:       "1-2",
			Description: "Character at an index, or the slice between two; negative indices count from the end",
		},
		"get": {
			Fn:          textIndex,
			Arity:       "1-2",
			Description: "Same as []",
		},
		"upper": mapper("Upper case", func(s string) string { return cases.Upper(language.Und).String(s) }),
		"lower": mapper("Lower case", func(s string) string { return cases.Lower(language.Und).String(s) }),
		"title": mapper("Title case", func(s string) string { return cases.Title(language.Und).String(s) }),
		"strip": mapper("Without surrounding whitespace", strings.TrimSpace),
		"split": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				var parts []string
				if len(args) == 0 {
					parts = strings.Fields(this.prim.(string))
				} else {
					sep, err := args[0].ToText(b)
					if err != nil {
						return nil, err
					}
					parts = strings.Split(this.prim.(string), sep)
				}
				out := make([]*Object, len(parts))
				for i, p := range parts {
					out[i] = NewText(p)
				}
				return NewList(out...), nil
			},
			Arity:       "0-1",
			Description: "Split on a separator, or on whitespace",
		},
		"contains": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				s, err := args[0].ToText(b)
				if err != nil {
					return nil, err
				}
				return NewBoolean(strings.Contains(this.prim.(string), s)), nil
			},
			Arity:       "1",
			Description: "Whether the argument occurs in the text",
		},
		"=": {
			Fn:          textAssign,
			Arity:       "1",
			Description: "Assign the argument to the variable named by this text in the caller's scope",
		},
		"hash": {
			Fn: func(b *Binding, this *Object, args Args) (*Object, error) {
				h := fnv.New32a()
				h.Write([]byte(this.prim.(string)))
				return NewNumber(float64(h.Sum32())), nil
			},
			Arity:       "0",
			Description: "FNV-1a hash of the contents",
		},
	}
}

func textIndex(b *Binding, this *Object, args Args) (*Object, error) {
	runes := []rune(this.prim.(string))
	start, err := indexArg(b, args[0], len(runes))
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if start < 0 || start >= len(runes) {
			return nil, newIndexError(start, len(runes))
		}
		return NewText(string(runes[start])), nil
	}
	stop, err := indexArg(b, args[1], len(runes))
	if err != nil {
		return nil, err
	}
	if start < 0 || stop > len(runes) || start > stop {
		return nil, newSliceError(start, stop, len(runes))
	}
	return NewText(string(runes[start:stop])), nil
}

// indexArg converts an index argument, counting negatives from the end.
func indexArg(b *Binding, arg *Object, length int) (int, error) {
	f, err := arg.ToNumber(b)
	if err != nil {
		return 0, err
	}
	i, err := integerOf(NewNumber(f))
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += int64(length)
	}
	return int(i), nil
}

func textAssign(b *Binding, this *Object, args Args) (*Object, error) {
	if b == nil {
		return nil, qerrors.Messaged("cannot assign %s outside of any binding", this.prim.(string))
	}
	if err := b.scope.SetAttr(b, keyFromObject(this), args[0]); err != nil {
		return nil, err
	}
	return args[0], nil
}
