package runtime

import (
	"fmt"
	"sync"
)

// ClassRegistry maps kinds and names to the built-in class objects and keeps
// the method tables they were built from for introspection.
type ClassRegistry struct {
	mu      sync.RWMutex
	byKind  map[Kind]*Object
	byName  map[string]*Object
	methods map[string]MethodRegistry
	order   []string
}

var classes = &ClassRegistry{
	byKind:  make(map[Kind]*Object),
	byName:  make(map[string]*Object),
	methods: make(map[string]MethodRegistry),
}

// The built-in List conversions, recognized so nested lists are walked
// without recursing through dispatch.
var builtinListText, builtinListEqual *NativeFunction

// The registry is filled once, before any program can run.
func init() {
	bootstrap()
}

func bootstrap() {
	pristine := classes.define("Pristine", pristineMethods())
	basic := classes.define("Basic", basicMethods(), pristine)
	comparable := classes.define("Comparable", comparableMethods())
	kernel := classes.define("Kernel", kernelMethods(), basic)

	classes.defineKind(KindNull, nullMethods(), basic)
	classes.defineKind(KindBoolean, booleanMethods(), comparable, basic)
	classes.defineKind(KindNumber, numberMethods(), comparable, basic)
	classes.defineKind(KindText, textMethods(), comparable, basic)
	list := classes.defineKind(KindList, listMethods(), basic)
	builtinListText = list.ownNative(LitText)
	builtinListEqual = list.ownNative(LitEql)
	classes.defineKind(KindNativeFunction, nativeFunctionMethods(), basic)
	classes.defineKind(KindBoundFunction, boundFunctionMethods(), basic)
	classes.defineKind(KindBlock, blockMethods(), basic)

	nullObject = newObject(KindNull, nil, Class(KindNull))

	kernel.putObject("true", True())
	kernel.putObject("false", False())
	kernel.putObject("null", nullObject)
	for _, name := range ClassNames() {
		kernel.putObject(Intern(name), ClassNamed(name))
	}
}

func (r *ClassRegistry) define(name string, methods MethodRegistry, parents ...*Object) *Object {
	class := newClass(name, parents...)
	methods.install(class)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = class
	r.methods[name] = methods
	r.order = append(r.order, name)
	return class
}

func (r *ClassRegistry) defineKind(kind Kind, methods MethodRegistry, parents ...*Object) *Object {
	class := r.define(kind.String(), methods, parents...)
	r.mu.Lock()
	r.byKind[kind] = class
	r.mu.Unlock()
	return class
}

// ownNative returns the native function stored directly on o under key.
func (o *Object) ownNative(key Literal) *NativeFunction {
	e, _, _ := o.ownGet(nil, probe(key))
	return e.value.native
}

// putObject stores an object attribute without running user code.
func (o *Object) putObject(key Literal, v *Object) {
	p := probe(key)
	o.state.WithMut(func(s *objectState) {
		s.attrs.put(p, nil, ObjectValue(v))
	})
}

// Class returns the class object for a kind, or nil when the kind has none.
func Class(kind Kind) *Object {
	classes.mu.RLock()
	defer classes.mu.RUnlock()
	return classes.byKind[kind]
}

// ClassNamed returns a built-in class by name.
func ClassNamed(name string) *Object {
	classes.mu.RLock()
	defer classes.mu.RUnlock()
	return classes.byName[name]
}

// ClassNames returns the built-in class names in definition order.
func ClassNames() []string {
	classes.mu.RLock()
	defer classes.mu.RUnlock()
	return append([]string{}, classes.order...)
}

// MethodsFor returns the method table of a built-in class.
func MethodsFor(name string) []MethodInfo {
	classes.mu.RLock()
	defer classes.mu.RUnlock()
	registry := classes.methods[name]
	if registry == nil {
		return nil
	}
	return registry.ToMethodInfos()
}

// RegisterNative stores fn on class under name. This is how collaborators
// extend the built-in classes.
func RegisterNative(class *Object, name string, fn NativeFunc) error {
	if class == nil {
		return fmt.Errorf("register %q: nil class", name)
	}
	return class.SetAttrValue(nil, Intern(name), NativeValue(name, fn))
}

// RegisterMethods installs a method table on a built-in class and records it
// for introspection.
func RegisterMethods(className string, methods MethodRegistry) error {
	class := ClassNamed(className)
	if class == nil {
		return fmt.Errorf("register methods: unknown class %q", className)
	}
	methods.install(class)

	classes.mu.Lock()
	defer classes.mu.Unlock()
	merged := MethodRegistry{}
	for name, entry := range classes.methods[className] {
		merged[name] = entry
	}
	for name, entry := range methods {
		merged[name] = entry
	}
	classes.methods[className] = merged
	return nil
}
