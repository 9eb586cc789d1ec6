package calllog

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// maxReprDepth bounds nested rendering so cyclic values terminate.
const maxReprDepth = 16

// Repr renders v the way call logs show values: strings quoted, nil as None,
// booleans as True/False, slices as [a, b], maps as {k: v}.
func Repr(v any) string {
	var b strings.Builder
	writeRepr(&b, v, 0)
	return b.String()
}

// tuple renders as (a, b) for functions returning several values.
type tuple []any

func writeRepr(b *strings.Builder, v any, depth int) {
	if depth > maxReprDepth {
		b.WriteString("...")
		return
	}

	switch x := v.(type) {
	case nil:
		b.WriteString("None")
		return
	case *Arguments:
		if x == nil {
			b.WriteString("None")
			return
		}
		x.writeTo(b, depth)
		return
	case tuple:
		b.WriteByte('(')
		for i, item := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, item, depth+1)
		}
		if len(x) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
		return
	case Kwargs:
		args := NewArguments(len(x))
		for _, kw := range x {
			args.Set(kw.Name, kw.Value)
		}
		args.writeTo(b, depth)
		return
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		b.WriteString("None")
		return
	}
	if isNamedNonBasic(rv.Type()) {
		switch x := v.(type) {
		case error:
			b.WriteString(quote(errorText(x)))
			return
		case fmt.Stringer:
			b.WriteString(quote(stringerText(x)))
			return
		}
	}
	writeValue(b, rv, depth)
}

// isNamedNonBasic reports whether t is a defined type, so its own String or
// Error method describes it better than its underlying kind.
func isNamedNonBasic(t reflect.Type) bool {
	return t.PkgPath() != "" || t.Kind() == reflect.Pointer
}

func writeValue(b *strings.Builder, rv reflect.Value, depth int) {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		b.WriteString(formatFloatBits(rv.Float(), 32))
	case reflect.Float64:
		b.WriteString(formatFloat(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		b.WriteByte('(')
		b.WriteString(formatFloatShort(real(c)))
		if imag(c) >= 0 || math.IsNaN(imag(c)) {
			b.WriteByte('+')
		}
		b.WriteString(formatFloatShort(imag(c)))
		b.WriteString("j)")
	case reflect.String:
		b.WriteString(quote(rv.String()))
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b.WriteByte('b')
			b.WriteString(quote(string(rv.Bytes())))
			return
		}
		writeList(b, rv, depth)
	case reflect.Array:
		writeList(b, rv, depth)
	case reflect.Map:
		writeMap(b, rv, depth)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("None")
			return
		}
		writeRepr(b, rv.Elem().Interface(), depth+1)
	case reflect.Struct:
		writeStruct(b, rv, depth)
	case reflect.Func:
		if rv.IsNil() {
			b.WriteString("None")
			return
		}
		fmt.Fprintf(b, "<func %s>", rv.Type())
	case reflect.Chan:
		if rv.IsNil() {
			b.WriteString("None")
			return
		}
		fmt.Fprintf(b, "<%s>", rv.Type())
	default:
		fmt.Fprintf(b, "<%s>", rv.Type())
	}
}

func writeList(b *strings.Builder, rv reflect.Value, depth int) {
	b.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRepr(b, interfaceOf(rv.Index(i)), depth+1)
	}
	b.WriteByte(']')
}

func writeMap(b *strings.Builder, rv reflect.Value, depth int) {
	if rv.IsNil() {
		b.WriteString("{}")
		return
	}
	type entry struct{ key, val string }
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		var kb, vb strings.Builder
		writeRepr(&kb, interfaceOf(iter.Key()), depth+1)
		writeRepr(&vb, interfaceOf(iter.Value()), depth+1)
		entries = append(entries, entry{kb.String(), vb.String()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	b.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.key)
		b.WriteString(": ")
		b.WriteString(e.val)
	}
	b.WriteByte('}')
}

func writeStruct(b *strings.Builder, rv reflect.Value, depth int) {
	t := rv.Type()
	name := t.Name()
	if name == "" {
		name = "struct"
	}
	b.WriteString(name)
	b.WriteByte('(')
	first := true
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(f.Name)
		b.WriteByte('=')
		writeRepr(b, interfaceOf(rv.Field(i)), depth+1)
	}
	b.WriteByte(')')
}

// interfaceOf returns rv as an interface value, or nil for an invalid or
// unexported value.
func interfaceOf(rv reflect.Value) any {
	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}
	return rv.Interface()
}

// formatFloat renders f with the shortest round-tripping digits, keeping a
// trailing ".0" on integral values and switching to exponent form outside
// [1e-4, 1e16).
func formatFloat(f float64) string {
	return formatFloatBits(f, 64)
}

func formatFloatBits(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// formatFloatShort is formatFloat without the trailing ".0", as used for the
// parts of a complex number.
func formatFloatShort(f float64) string {
	return strings.TrimSuffix(formatFloat(f), ".0")
}

// quote wraps s in single quotes, or in double quotes when s contains a
// single quote and no double quote.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}

// errorText returns err.Error(). Like fmt, a nil pointer receiver that
// panics renders as <nil> and any other panic as %!v(PANIC=Error method: ...).
func errorText(err error) (text string) {
	defer catchPanic(err, "Error", &text)
	return err.Error()
}

// stringerText is errorText for fmt.Stringer.
func stringerText(s fmt.Stringer) (text string) {
	defer catchPanic(s, "String", &text)
	return s.String()
}

func catchPanic(v any, method string, text *string) {
	r := recover()
	if r == nil {
		return
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		*text = "<nil>"
		return
	}
	*text = fmt.Sprintf("%%!v(PANIC=%s method: %v)", method, r)
}
