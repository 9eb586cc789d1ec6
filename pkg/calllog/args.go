package calllog

import "strings"

// Arguments is an insertion-ordered mapping from parameter name to value.
//
// The zero value is an empty mapping ready to use.
type Arguments struct {
	names  []string
	values map[string]any
}

// NewArguments returns an empty mapping with room for n entries.
func NewArguments(n int) *Arguments {
	return &Arguments{
		names:  make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set stores value under name. An existing name keeps its position.
func (a *Arguments) Set(name string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

// Get returns the value stored under name.
func (a *Arguments) Get(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok
}

// Len returns the number of entries.
func (a *Arguments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// Names returns the entry names in insertion order.
func (a *Arguments) Names() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Each calls fn for every entry in insertion order.
func (a *Arguments) Each(fn func(name string, value any)) {
	if a == nil {
		return
	}
	for _, name := range a.names {
		fn(name, a.values[name])
	}
}

// Clone returns a shallow copy.
func (a *Arguments) Clone() *Arguments {
	out := NewArguments(a.Len())
	a.Each(out.Set)
	return out
}

// String renders the mapping as {'name': value, ...}.
func (a *Arguments) String() string {
	var b strings.Builder
	a.writeTo(&b, 0)
	return b.String()
}

func (a *Arguments) writeTo(b *strings.Builder, depth int) {
	b.WriteByte('{')
	for i, name := range a.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(name))
		b.WriteString(": ")
		writeRepr(b, a.values[name], depth+1)
	}
	b.WriteByte('}')
}

// Kwarg is a single argument supplied by name.
type Kwarg struct {
	Name  string
	Value any
}

// Kwargs carries arguments supplied by name. When a wrapped function declares
// a Kwargs parameter, its entries are logged as named arguments.
type Kwargs []Kwarg

// Named is shorthand for a Kwarg literal.
func Named(name string, value any) Kwarg {
	return Kwarg{Name: name, Value: value}
}

// Get returns the last value supplied under name.
func (k Kwargs) Get(name string) (any, bool) {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i].Name == name {
			return k[i].Value, true
		}
	}
	return nil, false
}

// Normalize binds a call's arguments to parameter names.
//
// When receiver is true the first parameter name and the first positional
// value are dropped. Remaining names and values are paired up to the shorter
// of the two, then named values are overlaid: an existing name is replaced
// in place and a new name is appended. Positional values without a name are
// left out of the result; the call itself is unaffected.
func Normalize(params []string, positional []any, named Kwargs, receiver bool) *Arguments {
	if receiver {
		if len(params) > 0 {
			params = params[1:]
		}
		if len(positional) > 0 {
			positional = positional[1:]
		}
	}

	n := min(len(params), len(positional))
	args := NewArguments(n + len(named))
	for i := 0; i < n; i++ {
		args.Set(params[i], positional[i])
	}
	for _, kw := range named {
		args.Set(kw.Name, kw.Value)
	}
	return args
}
