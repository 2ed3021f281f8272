package runtime

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Kind is the native variant an object carries. Behaviour never switches on
// Kind outside the class that owns it; everything else goes through
// attributes.
type Kind uint8

const (
	KindPlain Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindText
	KindList
	KindNativeFunction
	KindBoundFunction
	KindBlock
	KindScope
)

var kindNames = [...]string{
	KindPlain:          "Object",
	KindNull:           "Null",
	KindBoolean:        "Boolean",
	KindNumber:         "Number",
	KindText:           "Text",
	KindList:           "List",
	KindNativeFunction: "NativeFunction",
	KindBoundFunction:  "BoundFunction",
	KindBlock:          "Block",
	KindScope:          "Scope",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var nextID atomic.Uint64

// Object is the user-visible value. The native payload (prim) is fixed at
// construction; parents, attributes and list elements live behind a Cow so
// cloning is O(1).
type Object struct {
	id    uint64
	kind  Kind
	prim  any
	state *Cow[*objectState]
}

type objectState struct {
	parents []*Object
	attrs   *AttrMap
	elems   []*Object
}

func (s *objectState) Clone() *objectState {
	out := &objectState{attrs: s.attrs.Clone()}
	if s.parents != nil {
		out.parents = append([]*Object(nil), s.parents...)
	}
	if s.elems != nil {
		out.elems = append([]*Object(nil), s.elems...)
	}
	return out
}

// classTag names a class object.
type classTag string

func (*Object) isKey() {}

func newObject(kind Kind, prim any, parents ...*Object) *Object {
	ps := make([]*Object, 0, len(parents))
	for _, p := range parents {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Object{
		id:    nextID.Add(1),
		kind:  kind,
		prim:  prim,
		state: NewCow(&objectState{parents: ps, attrs: NewAttrMap()}),
	}
}

// New creates an object from native data and a parent list. The kind is
// inferred from data; with no parents the kind's class is used. Data of any
// other Go type is kept as an opaque payload on a plain object.
func New(data any, parents ...*Object) *Object {
	kind := KindPlain
	var elems []*Object
	switch d := data.(type) {
	case nil:
	case float64:
		kind = KindNumber
	case int:
		kind, data = KindNumber, float64(d)
	case string:
		kind = KindText
	case bool:
		kind = KindBoolean
	case []*Object:
		kind, data = KindList, nil
		elems = append([]*Object{}, d...)
	case *NativeFunction:
		kind = KindNativeFunction
	}

	if len(parents) == 0 {
		if kind == KindPlain {
			parents = []*Object{ClassNamed("Basic")}
		} else {
			parents = []*Object{Class(kind)}
		}
	}
	o := newObject(kind, data, parents...)
	if kind == KindList {
		o.state.owned.elems = elems
	}
	return o
}

// NewNumber returns a Number.
func NewNumber(f float64) *Object { return newObject(KindNumber, f, Class(KindNumber)) }

// NewText returns a Text.
func NewText(s string) *Object { return newObject(KindText, s, Class(KindText)) }

// NewBoolean returns a Boolean.
func NewBoolean(v bool) *Object { return newObject(KindBoolean, v, Class(KindBoolean)) }

// True returns a new true Boolean.
func True() *Object { return NewBoolean(true) }

// False returns a new false Boolean.
func False() *Object { return NewBoolean(false) }

var nullObject *Object

// Null returns the null object.
func Null() *Object { return nullObject }

// NewList returns a List holding a copy of elems.
func NewList(elems ...*Object) *Object {
	o := newObject(KindList, nil, Class(KindList))
	o.state.owned.elems = append([]*Object{}, elems...)
	return o
}

// NewPlain returns an object with no native data. With no parents it
// inherits from Basic.
func NewPlain(parents ...*Object) *Object {
	return New(nil, parents...)
}

// NewNativeFunction wraps fn as a NativeFunction object.
func NewNativeFunction(name string, fn NativeFunc) *Object {
	return (&NativeFunction{Name: name, Fn: fn}).Object()
}

type boundFunction struct {
	owner *Object
	fn    Value
}

// NewBoundFunction returns a callable that always calls fn with owner as the
// receiver, whatever receiver it is itself called with.
func NewBoundFunction(owner *Object, fn Value) *Object {
	return newObject(KindBoundFunction, &boundFunction{owner: owner, fn: fn}, Class(KindBoundFunction))
}

type block struct {
	name  string
	body  Executable
	scope *Object
}

// NewBlock returns a Block closing over b's scope. Calling it pushes a frame
// whose scope inherits from the captured one.
func NewBlock(b *Binding, name string, body Executable) *Object {
	var scope *Object
	if b != nil {
		scope = b.scope
	}
	return newObject(KindBlock, &block{name: name, body: body, scope: scope}, Class(KindBlock))
}

func newClass(name string, parents ...*Object) *Object {
	return newObject(KindPlain, classTag(name), parents...)
}

// ID returns the object's identity.
func (o *Object) ID() uint64 { return o.id }

// Kind returns the native variant.
func (o *Object) Kind() Kind { return o.kind }

// Data returns the native payload.
func (o *Object) Data() any { return o.prim }

// Number returns the payload of a Number.
func (o *Object) Number() (float64, bool) {
	f, ok := o.prim.(float64)
	return f, ok && o.kind == KindNumber
}

// Text returns the payload of a Text.
func (o *Object) Text() (string, bool) {
	s, ok := o.prim.(string)
	return s, ok && o.kind == KindText
}

// Boolean returns the payload of a Boolean.
func (o *Object) Boolean() (bool, bool) {
	v, ok := o.prim.(bool)
	return v, ok && o.kind == KindBoolean
}

// List returns a copy of a List's elements.
func (o *Object) List() ([]*Object, bool) {
	if o.kind != KindList {
		return nil, false
	}
	var out []*Object
	o.state.WithRef(func(s *objectState) {
		out = append([]*Object{}, s.elems...)
	})
	return out, true
}

// Native returns the function wrapped by a NativeFunction.
func (o *Object) Native() *NativeFunction {
	f, _ := o.prim.(*NativeFunction)
	return f
}

// TypeName names the object's type for messages.
func (o *Object) TypeName() string {
	if t, ok := o.prim.(classTag); ok {
		return "Class " + string(t)
	}
	return o.kind.String()
}

// Parents returns a copy of the parent list.
func (o *Object) Parents() []*Object {
	var out []*Object
	o.state.WithRef(func(s *objectState) {
		out = append([]*Object{}, s.parents...)
	})
	return out
}

// SetParents replaces the parent list.
func (o *Object) SetParents(parents ...*Object) {
	ps := append([]*Object{}, parents...)
	o.state.WithMut(func(s *objectState) {
		s.parents = ps
	})
}

// Clone returns a new object with its own identity sharing o's state until
// either side writes.
func (o *Object) Clone() *Object {
	return &Object{
		id:    nextID.Add(1),
		kind:  o.kind,
		prim:  o.prim,
		state: o.state.Clone(),
	}
}

// Keys returns the object's own keys in insertion order, followed, when
// inherited is set, by the keys of its parent chain not already listed.
func (o *Object) Keys(inherited bool) []Key {
	var own []Key
	o.state.WithRef(func(s *objectState) { own = s.attrs.Keys() })
	if !inherited {
		return own
	}

	var out []Key
	seenObj := map[*Object]bool{}
	seenName := map[string]bool{}
	var walk func(*Object, []Key)
	walk = func(obj *Object, keys []Key) {
		if seenObj[obj] {
			return
		}
		seenObj[obj] = true
		for _, k := range keys {
			name := KeyName(k)
			if _, isObj := k.(*Object); isObj && probe(k).kind == probeOther {
				out = append(out, k)
				continue
			}
			if !seenName[name] {
				seenName[name] = true
				out = append(out, k)
			}
		}
		for _, p := range obj.Parents() {
			walk(p, p.Keys(false))
		}
	}
	walk(o, own)
	return out
}

func (o *Object) chainKeyNames() []string {
	keys := o.Keys(true)
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if probe(k).kind == probeText {
			names = append(names, KeyName(k))
		}
	}
	return names
}

// ownGet looks key up in o's own map. User-level `==` runs after the read
// lock is released.
func (o *Object) ownGet(b *Binding, p keyProbe) (attrEntry, bool, error) {
	var (
		hit     attrEntry
		found   bool
		pending []attrEntry
	)
	o.state.WithRef(func(s *objectState) {
		hit, found, pending = s.attrs.scanNative(p)
	})
	if found {
		return hit, true, nil
	}
	for _, e := range pending {
		eq, err := KeyEqual(b, e.probe.key, p.key)
		if err != nil {
			return attrEntry{}, false, err
		}
		if eq {
			return e, true, nil
		}
	}
	return attrEntry{}, false, nil
}

// lookup resolves key on o: virtual attributes, then o's own map, then each
// parent depth-first, left to right.
func (o *Object) lookup(b *Binding, key Key) (Value, bool, error) {
	p := probe(key)
	if p.kind == probeText {
		switch Literal(p.text) {
		case LitParents:
			return ObjectValue(NewList(o.Parents()...)), true, nil
		case LitID:
			return ObjectValue(NewNumber(float64(o.id))), true, nil
		}
	}
	return o.lookupFrom(b, p, 0, interpOf(b).limits.MaxParentDepth)
}

func (o *Object) lookupFrom(b *Binding, p keyProbe, depth, limit int) (Value, bool, error) {
	if limit > 0 && depth > limit {
		return Value{}, false, newParentDepthError(o, limit)
	}
	e, found, err := o.ownGet(b, p)
	if err != nil || found {
		return e.value, found, err
	}
	for _, parent := range o.Parents() {
		v, found, err := parent.lookupFrom(b, p, depth+1, limit)
		if err != nil || found {
			return v, found, err
		}
	}
	return Value{}, false, nil
}

// GetValue returns the raw Value stored under key anywhere in o's chain.
func (o *Object) GetValue(b *Binding, key Key) (Value, error) {
	v, found, err := o.lookup(b, key)
	if err != nil {
		return Value{}, err
	}
	if !found {
		return Value{}, newMissingAttributeError(o, key)
	}
	return v, nil
}

// GetAttr returns the attribute stored under key anywhere in o's chain.
func (o *Object) GetAttr(b *Binding, key Key) (*Object, error) {
	v, err := o.GetValue(b, key)
	if err != nil {
		return nil, err
	}
	return v.Object(), nil
}

// HasAttr reports whether key resolves on o.
func (o *Object) HasAttr(b *Binding, key Key) (bool, error) {
	_, found, err := o.lookup(b, key)
	return found, err
}

// HasOwnAttr reports whether key is in o's own map.
func (o *Object) HasOwnAttr(b *Binding, key Key) (bool, error) {
	_, found, err := o.ownGet(b, probe(key))
	return found, err
}

// CallAttr resolves key on o and calls it with o as the receiver.
func (o *Object) CallAttr(b *Binding, key Key, args ...*Object) (*Object, error) {
	v, err := o.GetValue(b, key)
	if err != nil {
		return nil, err
	}
	return v.Call(b, o, args)
}

// SetAttr stores value under key in o's own map. Setting __parents__ replaces
// the parent list.
func (o *Object) SetAttr(b *Binding, key Key, value *Object) error {
	p := probe(key)
	if p.kind == probeText {
		switch Literal(p.text) {
		case LitParents:
			parents, ok := value.List()
			if !ok {
				return newTypeError("__parents__", "List", value)
			}
			o.SetParents(parents...)
			return nil
		case LitID:
			return newReadOnlyError(LitID)
		}
	}
	return o.SetAttrValue(b, key, ObjectValue(value))
}

// SetAttrValue stores v under key in o's own map, overwriting an equal key.
func (o *Object) SetAttrValue(b *Binding, key Key, v Value) error {
	p := probe(key)
	e, found, err := o.ownGet(b, p)
	if err != nil {
		return err
	}
	var match Key
	if found {
		match = e.probe.key
	}
	o.state.WithMut(func(s *objectState) {
		s.attrs.put(p, match, v)
	})
	return nil
}

// DelAttr removes key from o's own map and returns what it held.
func (o *Object) DelAttr(b *Binding, key Key) (*Object, error) {
	e, found, err := o.ownGet(b, probe(key))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newMissingAttributeError(o, key)
	}
	var (
		v  Value
		ok bool
	)
	o.state.WithMut(func(s *objectState) {
		v, ok = s.attrs.drop(e.probe.key)
	})
	if !ok {
		return nil, newMissingAttributeError(o, key)
	}
	return v.Object(), nil
}

// Equals compares o with other using o's `==` attribute.
func (o *Object) Equals(b *Binding, other *Object) (bool, error) {
	if o == other {
		return true, nil
	}
	r, err := o.CallAttr(b, LitEql, other)
	if err != nil {
		return false, err
	}
	return r.Truthy(b)
}

// Truthy converts o with `@bool`.
func (o *Object) Truthy(b *Binding) (bool, error) {
	if v, ok := o.Boolean(); ok {
		return v, nil
	}
	r, err := o.CallAttr(b, LitBool)
	if err != nil {
		return false, err
	}
	v, ok := r.Boolean()
	if !ok {
		return false, newConversionResultError(LitBool, "Boolean", r)
	}
	return v, nil
}

// ToText converts o with `@text`.
func (o *Object) ToText(b *Binding) (string, error) {
	if s, ok := o.Text(); ok {
		return s, nil
	}
	r, err := o.CallAttr(b, LitText)
	if err != nil {
		return "", err
	}
	s, ok := r.Text()
	if !ok {
		return "", newConversionResultError(LitText, "Text", r)
	}
	return s, nil
}

// ToNumber converts o with `@num`.
func (o *Object) ToNumber(b *Binding) (float64, error) {
	if f, ok := o.Number(); ok {
		return f, nil
	}
	r, err := o.CallAttr(b, LitNum)
	if err != nil {
		return 0, err
	}
	f, ok := r.Number()
	if !ok {
		return 0, newConversionResultError(LitNum, "Number", r)
	}
	return f, nil
}

// ToList converts o with `@list`.
func (o *Object) ToList(b *Binding) ([]*Object, error) {
	if elems, ok := o.List(); ok {
		return elems, nil
	}
	r, err := o.CallAttr(b, LitList)
	if err != nil {
		return nil, err
	}
	elems, ok := r.List()
	if !ok {
		return nil, newConversionResultError(LitList, "List", r)
	}
	return elems, nil
}

// String renders o without running any user code.
func (o *Object) String() string {
	return o.inspect(0)
}

const maxInspectDepth = 8

func (o *Object) inspect(depth int) string {
	switch o.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(o.prim.(bool))
	case KindNumber:
		return formatNumber(o.prim.(float64))
	case KindText:
		return strconv.Quote(o.prim.(string))
	case KindList:
		if depth >= maxInspectDepth {
			return "[...]"
		}
		elems, _ := o.List()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.inspect(depth + 1)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindNativeFunction:
		return "<native " + o.prim.(*NativeFunction).Name + ">"
	case KindBoundFunction:
		return "<bound " + o.prim.(*boundFunction).fn.Object().inspect(depth+1) + ">"
	case KindBlock:
		if name := o.prim.(*block).name; name != "" {
			return "<block " + name + ">"
		}
		return "<block>"
	case KindScope:
		return fmt.Sprintf("<scope depth=%d>", o.prim.(*Binding).depth)
	}
	if t, ok := o.prim.(classTag); ok {
		return string(t)
	}
	return fmt.Sprintf("<Object #%d>", o.id)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// sortedNames returns a registry's keys in order.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
