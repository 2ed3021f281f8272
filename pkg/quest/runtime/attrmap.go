package runtime

// attrEntry is one (Key, Value) pair together with the key's probe.
type attrEntry struct {
	probe keyProbe
	value Value
}

// AttrMap is an ordered association list from Key to Value. Lookups are
// linear scans; insertion order is kept for Keys. No two entries have equal
// keys. Every operation that compares keys can fail, because comparing two
// arbitrary objects calls their `==`.
//
// An AttrMap is not synchronized; objects guard theirs with a Cow.
type AttrMap struct {
	entries []attrEntry
}

// NewAttrMap returns an empty map.
func NewAttrMap() *AttrMap {
	return &AttrMap{}
}

// Clone returns a copy sharing no storage with m.
func (m *AttrMap) Clone() *AttrMap {
	out := &AttrMap{entries: make([]attrEntry, len(m.entries))}
	copy(out.entries, m.entries)
	return out
}

// Len returns the number of entries.
func (m *AttrMap) Len() int { return len(m.entries) }

// Keys returns the keys in insertion order.
func (m *AttrMap) Keys() []Key {
	keys := make([]Key, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.probe.key
	}
	return keys
}

func (m *AttrMap) index(b *Binding, p keyProbe) (int, error) {
	for i, e := range m.entries {
		eq, ok := e.probe.nativeEqual(p)
		if !ok {
			var err error
			if eq, err = KeyEqual(b, e.probe.key, p.key); err != nil {
				return -1, err
			}
		}
		if eq {
			return i, nil
		}
	}
	return -1, nil
}

// Has reports whether key is present.
func (m *AttrMap) Has(b *Binding, key Key) (bool, error) {
	i, err := m.index(b, probe(key))
	return i >= 0, err
}

// Get returns the value stored under key.
func (m *AttrMap) Get(b *Binding, key Key) (Value, bool, error) {
	i, err := m.index(b, probe(key))
	if err != nil || i < 0 {
		return Value{}, false, err
	}
	return m.entries[i].value, true, nil
}

// Insert stores value under key, overwriting an equal key in place or
// appending a new entry.
func (m *AttrMap) Insert(b *Binding, key Key, value Value) error {
	p := probe(key)
	i, err := m.index(b, p)
	if err != nil {
		return err
	}
	if i >= 0 {
		m.entries[i].value = value
		return nil
	}
	m.entries = append(m.entries, attrEntry{probe: p, value: value})
	return nil
}

// Remove deletes key and returns the value it held.
func (m *AttrMap) Remove(b *Binding, key Key) (Value, bool, error) {
	i, err := m.index(b, probe(key))
	if err != nil || i < 0 {
		return Value{}, false, err
	}
	v := m.entries[i].value
	m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
	return v, true, nil
}

// scanNative looks key up using only native comparisons. It returns the hit,
// or the entries that need a user-level `==` to decide (copied, so the caller
// may release the lock before comparing them).
func (m *AttrMap) scanNative(p keyProbe) (hit attrEntry, found bool, pending []attrEntry) {
	for _, e := range m.entries {
		eq, ok := e.probe.nativeEqual(p)
		if !ok {
			pending = append(pending, e)
			continue
		}
		if eq {
			return e, true, nil
		}
	}
	return attrEntry{}, false, pending
}

// nativeIndex finds the entry natively equal to p.
func (m *AttrMap) nativeIndex(p keyProbe) int {
	for i, e := range m.entries {
		if eq, ok := e.probe.nativeEqual(p); ok && eq {
			return i
		}
	}
	return -1
}

// identityIndex finds the entry whose key is exactly k.
func (m *AttrMap) identityIndex(k Key) int {
	for i, e := range m.entries {
		if e.probe.key == k {
			return i
		}
	}
	return -1
}

// put stores v for a key already matched outside the lock. match is the
// existing key found equal to p, or nil.
func (m *AttrMap) put(p keyProbe, match Key, v Value) {
	i := -1
	if match != nil {
		i = m.identityIndex(match)
	}
	if i < 0 {
		i = m.nativeIndex(p)
	}
	if i >= 0 {
		m.entries[i].value = v
		return
	}
	m.entries = append(m.entries, attrEntry{probe: p, value: v})
}

// drop removes the entry for a key already matched outside the lock.
func (m *AttrMap) drop(match Key) (Value, bool) {
	i := m.identityIndex(match)
	if i < 0 {
		return Value{}, false
	}
	v := m.entries[i].value
	m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
	return v, true
}
