package runtime

import "strconv"

// Key is an attribute key: either a Literal or an arbitrary *Object.
type Key interface {
	isKey()
	String() string
}

type probeKind uint8

const (
	probeOther probeKind = iota
	probeText
	probeNumber
)

// keyProbe is a lock-free snapshot of a key taken once, before any attribute
// map lock is held. Text and number payloads are immutable, so the snapshot
// never goes stale.
type keyProbe struct {
	key  Key
	kind probeKind
	text string
	num  float64
}

func probe(k Key) keyProbe {
	switch k := k.(type) {
	case Literal:
		return keyProbe{key: k, kind: probeText, text: string(k)}
	case *Object:
		switch k.kind {
		case KindText:
			return keyProbe{key: k, kind: probeText, text: k.prim.(string)}
		case KindNumber:
			return keyProbe{key: k, kind: probeNumber, num: k.prim.(float64)}
		}
	}
	return keyProbe{key: k}
}

// nativeEqual compares two probes without running user code. ok is false
// when only the objects' own `==` can decide.
func (p keyProbe) nativeEqual(q keyProbe) (eq, ok bool) {
	if p.kind != probeOther && p.kind == q.kind {
		if p.kind == probeText {
			return p.text == q.text, true
		}
		return p.num == q.num, true
	}

	po, pObj := p.key.(*Object)
	qo, qObj := q.key.(*Object)
	switch {
	case pObj && qObj && po == qo:
		return true, true
	case !pObj || !qObj:
		// a literal only ever equals text
		return false, true
	case p.kind != probeOther && q.kind != probeOther:
		// text against number
		return false, true
	}
	return false, false
}

// KeyEqual reports whether two keys name the same attribute. Literals and
// text objects compare by content; any other pair of objects is compared by
// calling the left object's `==` attribute, which may fail.
func KeyEqual(b *Binding, x, y Key) (bool, error) {
	if eq, ok := probe(x).nativeEqual(probe(y)); ok {
		return eq, nil
	}
	return x.(*Object).Equals(b, y.(*Object))
}

// KeyName renders a key for messages.
func KeyName(k Key) string {
	p := probe(k)
	switch p.kind {
	case probeText:
		return p.text
	case probeNumber:
		return strconv.FormatFloat(p.num, 'g', -1, 64)
	}
	return k.String()
}

// keyFromObject turns a key given at the language level into a Key. Interned
// text is mapped back to its literal so the fast path stays in use.
func keyFromObject(o *Object) Key {
	if s, ok := o.Text(); ok && IsInterned(s) {
		return Intern(s)
	}
	return o
}
