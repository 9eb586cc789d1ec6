package calllog

import "reflect"

// receiverPolicy decides whether the first positional argument of a call is
// a method receiver.
type receiverPolicy int

const (
	// noReceiver is used by Func: the target is a plain function or a bound
	// method value.
	noReceiver receiverPolicy = iota
	// boundReceiver is used by Method: the target is a method expression and
	// its first argument is always the receiver.
	boundReceiver
	// detectReceiver is used by Auto: the receiver is guessed from the
	// dynamic kind of the first argument.
	detectReceiver
)

func (p receiverPolicy) detect(positional []any) bool {
	switch p {
	case boundReceiver:
		return len(positional) > 0
	case detectReceiver:
		return IsReceiver(positional)
	default:
		return false
	}
}

// IsReceiver reports whether the first value of positional looks like a
// method receiver. Booleans, numbers, strings, slices, arrays, maps and nil
// are plain values; anything else (structs, pointers, funcs, channels) is
// treated as a receiver.
//
// This is a heuristic. A plain function whose first argument is a struct or
// a pointer is reported as a method call.
func IsReceiver(positional []any) bool {
	if len(positional) == 0 || positional[0] == nil {
		return false
	}
	switch reflect.TypeOf(positional[0]).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return false
	default:
		return true
	}
}

// typeNameOf returns the bare name of t, looking through one pointer.
func typeNameOf(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
