package runtime

import (
	"sort"
	"strconv"
	"strings"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// MethodEntry defines a single method with its implementation and metadata.
// This serves as the single source of truth for both dispatch and introspection.
type MethodEntry struct {
	Fn          NativeFunc
	Arity       string // "0", "1", "0-1", "1+", "2", etc.
	Description string
}

// MethodRegistry maps method names to their entries for a class.
type MethodRegistry map[string]MethodEntry

// MethodInfo describes one method for introspection.
type MethodInfo struct {
	Name        string `json:"name"`
	Arity       string `json:"arity"`
	Description string `json:"description"`
}

// Names returns a sorted list of method names in this registry.
func (r MethodRegistry) Names() []string {
	return sortedNames(r)
}

// Get returns the method entry for the given name, if it exists.
func (r MethodRegistry) Get(name string) (MethodEntry, bool) {
	entry, ok := r[name]
	return entry, ok
}

// ToMethodInfos converts the registry to a slice of MethodInfo for introspection.
// Results are sorted alphabetically by method name.
func (r MethodRegistry) ToMethodInfos() []MethodInfo {
	methods := make([]MethodInfo, 0, len(r))
	for name, entry := range r {
		methods = append(methods, MethodInfo{
			Name:        name,
			Arity:       entry.Arity,
			Description: entry.Description,
		})
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].Name < methods[j].Name
	})
	return methods
}

// install stores every entry on class as a native attribute, in name order,
// with arity checked before the entry runs.
func (r MethodRegistry) install(class *Object) {
	for _, name := range r.Names() {
		class.putNative(Intern(name), name, r[name].checked(name))
	}
}

// checked wraps the entry's function with its arity check.
func (e MethodEntry) checked(name string) NativeFunc {
	fn, spec := e.Fn, e.Arity
	return func(b *Binding, this *Object, args Args) (*Object, error) {
		if !checkArity(spec, len(args)) {
			return nil, newArityErrorFromSpec(name, spec, len(args))
		}
		return fn(b, this, args)
	}
}

// putNative stores a native function without running user code. Used while
// classes are being built.
func (o *Object) putNative(key Literal, name string, fn NativeFunc) {
	p := probe(key)
	o.state.WithMut(func(s *objectState) {
		s.attrs.put(p, nil, NativeValue(name, fn))
	})
}

// checkArity validates that the argument count matches the arity specification.
// Arity specs: "0", "1", "2", "0-1", "1-2", "0-2", "1+", "0+", "2+", etc.
func checkArity(spec string, got int) bool {
	spec = strings.TrimSpace(spec)

	// Exact match: "0", "1", "2", etc.
	if exact, err := strconv.Atoi(spec); err == nil {
		return got == exact
	}

	// Range: "0-1", "1-2", "0-2", etc.
	if lo, hi, ok := parseRange(spec); ok {
		return got >= lo && got <= hi
	}

	// Variadic: "1+", "0+", "2+", etc.
	if suffix, found := strings.CutSuffix(spec, "+"); found {
		if minVal, err := strconv.Atoi(suffix); err == nil {
			return got >= minVal
		}
	}

	// Unknown spec - be permissive
	return true
}

func parseRange(spec string) (int, int, bool) {
	lo, hi, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}
	minVal, errMin := strconv.Atoi(lo)
	maxVal, errMax := strconv.Atoi(hi)
	if errMin != nil || errMax != nil {
		return 0, 0, false
	}
	return minVal, maxVal, true
}

// newArityErrorFromSpec creates an arity error based on the spec string.
func newArityErrorFromSpec(method, spec string, got int) *qerrors.QuestError {
	spec = strings.TrimSpace(spec)

	if exact, err := strconv.Atoi(spec); err == nil {
		return qerrors.New("ARITY-0001", map[string]any{"Function": method, "Got": got, "Want": exact})
	}

	if lo, hi, ok := parseRange(spec); ok {
		return qerrors.New("ARITY-0002", map[string]any{"Function": method, "Got": got, "Min": lo, "Max": hi})
	}

	if suffix, found := strings.CutSuffix(spec, "+"); found {
		if minVal, err := strconv.Atoi(suffix); err == nil {
			return qerrors.New("ARITY-0003", map[string]any{"Function": method, "Got": got, "Min": minVal})
		}
	}

	// Fallback - generic error
	return qerrors.New("ARITY-0001", map[string]any{"Function": method, "Got": got, "Want": 0})
}
