package runtime

import "testing"

func TestIntern(t *testing.T) {
	if !IsInterned("@text") || !IsInterned("__parents__") {
		t.Fatal("well-known literals are not pre-registered")
	}
	if IsInterned("surely_not_interned_yet") {
		t.Fatal("unexpected literal")
	}
	l := Intern("surely_not_interned_yet")
	if l != Literal("surely_not_interned_yet") || !IsInterned("surely_not_interned_yet") {
		t.Errorf("Intern() = %q", l)
	}

	found := false
	for _, lit := range InternedLiterals() {
		if lit == LitCmp {
			found = true
		}
	}
	if !found {
		t.Error("InternedLiterals() is missing <=>")
	}
}

func TestKeyEqual(t *testing.T) {
	plain := NewPlain()
	tests := []struct {
		name string
		x, y Key
		want bool
	}{
		{"literal literal", Literal("a"), Literal("a"), true},
		{"literal literal differ", Literal("a"), Literal("b"), false},
		{"literal text", Literal("a"), NewText("a"), true},
		{"text literal", NewText("a"), Literal("a"), true},
		{"literal number", Literal("1"), NewNumber(1), false},
		{"literal plain", Literal("a"), plain, false},
		{"text text", NewText("a"), NewText("a"), true},
		{"number number", NewNumber(2), NewNumber(2), true},
		{"text number", NewText("2"), NewNumber(2), false},
		{"same object", plain, plain, true},
		{"distinct plain", NewPlain(), NewPlain(), false},
		{"list list", NewList(NewNumber(1)), NewList(NewNumber(1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyEqual(nil, tt.x, tt.y)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("KeyEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyFromObject(t *testing.T) {
	if k := keyFromObject(NewText("@text")); k != Key(LitText) {
		t.Errorf("interned text mapped to %#v", k)
	}
	n := NewNumber(1)
	if k := keyFromObject(n); k != Key(n) {
		t.Errorf("number mapped to %#v", k)
	}
}
