package runtime

import (
	"sort"
	"sync"
)

// Literal is an interned attribute name known ahead of time. Two literals are
// equal when their text is equal; interning keeps one canonical copy of each
// well-known name so lookups for built-in attributes never hash user text.
type Literal string

func (Literal) isKey() {}

// String returns the literal text.
func (l Literal) String() string { return string(l) }

// Well-known literals.
const (
	LitParents Literal = "__parents__"
	LitID      Literal = "__id__"
	LitKeys    Literal = "__keys__"
	LitThis    Literal = "__this__"
	LitArgs    Literal = "__args__"
	LitStack   Literal = "__stack__"

	LitText Literal = "@text"
	LitNum  Literal = "@num"
	LitBool Literal = "@bool"
	LitList Literal = "@list"
	LitCall Literal = "()"

	LitAdd    Literal = "+"
	LitSub    Literal = "-"
	LitMul    Literal = "*"
	LitDiv    Literal = "/"
	LitMod    Literal = "%"
	LitPow    Literal = "**"
	LitEql    Literal = "=="
	LitNeq    Literal = "!="
	LitLth    Literal = "<"
	LitLeq    Literal = "<="
	LitGth    Literal = ">"
	LitGeq    Literal = ">="
	LitCmp    Literal = "<=>"
	LitNot    Literal = "!"
	LitBitNot Literal = "~"
	LitBitAnd Literal = "&"
	LitBitOr  Literal = "|"
	LitBitXor Literal = "^"
	LitShl    Literal = "<<"
	LitShr    Literal = ">>"
	LitAnd    Literal = "&&"
	LitOr     Literal = "||"
	LitNeg    Literal = "-@"
	LitPos    Literal = "+@"
	LitIndex  Literal = "[]"
	LitIndexS Literal = "[]="
	LitAssign Literal = "="
	LitDot    Literal = "."
	LitDotS   Literal = ".="
	LitDotD   Literal = ".~"
	LitColon  Literal = "::"
	LitClone  Literal = "clone"
	LitHash   Literal = "hash"
)

var builtinLiterals = []Literal{
	LitParents, LitID, LitKeys, LitThis, LitArgs, LitStack,
	LitText, LitNum, LitBool, LitList, LitCall,
	LitAdd, LitSub, LitMul, LitDiv, LitMod, LitPow,
	LitEql, LitNeq, LitLth, LitLeq, LitGth, LitGeq, LitCmp,
	LitNot, LitBitNot, LitBitAnd, LitBitOr, LitBitXor, LitShl, LitShr,
	LitAnd, LitOr, LitNeg, LitPos, LitIndex, LitIndexS, LitAssign,
	LitDot, LitDotS, LitDotD, LitColon, LitClone, LitHash,
}

// literals is filled during variable initialization so class bootstrap in
// init() always sees the built-in names.
var literals = struct {
	sync.RWMutex
	m map[string]Literal
}{m: builtinLiteralTable()}

func builtinLiteralTable() map[string]Literal {
	m := make(map[string]Literal, len(builtinLiterals))
	for _, l := range builtinLiterals {
		m[string(l)] = l
	}
	return m
}

// Intern returns the canonical literal for s, registering it if needed.
func Intern(s string) Literal {
	literals.RLock()
	l, ok := literals.m[s]
	literals.RUnlock()
	if ok {
		return l
	}

	literals.Lock()
	defer literals.Unlock()
	if l, ok := literals.m[s]; ok {
		return l
	}
	// Clone so the table never pins a larger caller-owned buffer.
	l = Literal(string([]byte(s)))
	literals.m[s] = l
	return l
}

// IsInterned reports whether s is already in the literal table.
func IsInterned(s string) bool {
	literals.RLock()
	defer literals.RUnlock()
	_, ok := literals.m[s]
	return ok
}

// InternedLiterals returns every registered literal, sorted.
func InternedLiterals() []Literal {
	literals.RLock()
	out := make([]Literal, 0, len(literals.m))
	for _, l := range literals.m {
		out = append(out, l)
	}
	literals.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
