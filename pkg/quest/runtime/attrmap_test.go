package runtime

import (
	"errors"
	"testing"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

func TestAttrMapInsertOverwrites(t *testing.T) {
	keys := []struct {
		name string
		key  Key
	}{
		{"literal", Literal("x")},
		{"text object", NewText("x")},
		{"number object", NewNumber(7)},
		{"plain object", NewPlain()},
	}

	for _, tt := range keys {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAttrMap()
			if err := m.Insert(nil, tt.key, ObjectValue(NewNumber(1))); err != nil {
				t.Fatal(err)
			}
			if err := m.Insert(nil, tt.key, ObjectValue(NewNumber(2))); err != nil {
				t.Fatal(err)
			}
			if m.Len() != 1 {
				t.Errorf("Len() = %d, want 1", m.Len())
			}
			v, ok, err := m.Get(nil, tt.key)
			if err != nil || !ok {
				t.Fatalf("Get() = %v, %v", ok, err)
			}
			wantNumber(t, v.Object(), 2)
		})
	}
}

func TestAttrMapLiteralAndTextInterchangeable(t *testing.T) {
	v := ObjectValue(NewText("value"))

	m := NewAttrMap()
	if err := m.Insert(nil, Literal("foo"), v); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Get(nil, NewText("foo"))
	if err != nil || !ok {
		t.Fatalf("Get(text) = %v, %v", ok, err)
	}
	if got.Object() != v.Object() {
		t.Errorf("Get(text) returned a different value")
	}

	m = NewAttrMap()
	if err := m.Insert(nil, NewText("foo"), v); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Has(nil, Literal("foo")); !ok {
		t.Errorf("Has(literal) = false after inserting text key")
	}
	// one entry, not two
	if err := m.Insert(nil, Literal("foo"), v); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestAttrMapKeysKeepInsertionOrder(t *testing.T) {
	m := NewAttrMap()
	for _, k := range []string{"c", "a", "b"} {
		if err := m.Insert(nil, Literal(k), ObjectValue(Null())); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Insert(nil, NewText("a"), ObjectValue(NewNumber(1))); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Remove(nil, Literal("c")); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert(nil, Literal("c"), ObjectValue(Null())); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, k := range m.Keys() {
		got = append(got, KeyName(k))
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAttrMapDistinguishesKinds(t *testing.T) {
	m := NewAttrMap()
	if err := m.Insert(nil, NewNumber(1), ObjectValue(Null())); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Has(nil, NewText("1")); ok {
		t.Errorf("Text 1 matched Number 1")
	}
	if ok, _ := m.Has(nil, Literal("1")); ok {
		t.Errorf("Literal 1 matched Number 1")
	}
	if ok, _ := m.Has(nil, NewNumber(1)); !ok {
		t.Errorf("Number 1 did not match Number 1")
	}
}

func TestAttrMapEqualityFailurePropagates(t *testing.T) {
	boom := qerrors.Messaged("boom")
	k1 := NewPlain()
	if err := k1.SetAttrValue(nil, LitEql, NativeValue("==", func(*Binding, *Object, Args) (*Object, error) {
		return nil, boom
	})); err != nil {
		t.Fatal(err)
	}

	m := NewAttrMap()
	if err := m.Insert(nil, k1, ObjectValue(Null())); err != nil {
		t.Fatal(err)
	}

	k2 := NewPlain()
	if err := m.Insert(nil, k2, ObjectValue(Null())); !errors.Is(err, boom) {
		t.Errorf("Insert error = %v, want boom", err)
	}
	if _, _, err := m.Get(nil, k2); !errors.Is(err, boom) {
		t.Errorf("Get error = %v, want boom", err)
	}
	if _, _, err := m.Remove(nil, k2); !errors.Is(err, boom) {
		t.Errorf("Remove error = %v, want boom", err)
	}
	// literal keys never reach user code
	if ok, err := m.Has(nil, Literal("k")); ok || err != nil {
		t.Errorf("Has(literal) = %v, %v", ok, err)
	}
}

func TestAttrMapUserEquality(t *testing.T) {
	// every instance of this class equals every other
	class := NewPlain()
	if err := class.SetAttrValue(nil, LitEql, NativeValue("==", func(*Binding, *Object, Args) (*Object, error) {
		return True(), nil
	})); err != nil {
		t.Fatal(err)
	}

	m := NewAttrMap()
	if err := m.Insert(nil, NewPlain(class), ObjectValue(NewNumber(1))); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert(nil, NewPlain(class), ObjectValue(NewNumber(2))); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	v, ok, err := m.Get(nil, NewPlain(class))
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	wantNumber(t, v.Object(), 2)
}

func TestAttrMapCloneIsIndependent(t *testing.T) {
	m := NewAttrMap()
	_ = m.Insert(nil, Literal("a"), ObjectValue(NewNumber(1)))
	c := m.Clone()
	_ = c.Insert(nil, Literal("a"), ObjectValue(NewNumber(2)))
	_ = c.Insert(nil, Literal("b"), ObjectValue(NewNumber(3)))

	v, _, _ := m.Get(nil, Literal("a"))
	wantNumber(t, v.Object(), 1)
	if m.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", m.Len())
	}
}
