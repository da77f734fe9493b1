package format

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ArgsPlaceholder replaces a whole argument list whose formatting failed.
const ArgsPlaceholder = "<error formatting args>"

// Labeler lets a type supply a fixed label instead of having its shape
// inspected. Configuration-style objects implement this so their contents
// never leak into logs.
type Labeler interface {
	FormatLabel() string
}

// Shaped describes tensor-like values that know their own dimensions and
// element type.
type Shaped interface {
	Shape() []int
	DType() string
}

// Value renders v as a short descriptive string. It never panics.
func Value(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<unformattable %T>", v)
		}
	}()
	return value(v)
}

// Args formats a positional argument list. A failure anywhere degrades the
// whole list to the ArgsPlaceholder sentinel rather than propagating.
func Args(args []any) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			out = []string{ArgsPlaceholder}
		}
	}()
	out = make([]string, len(args))
	for i, a := range args {
		out[i] = Value(a)
	}
	return out
}

func value(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case Labeler:
		return x.FormatLabel()
	case Shaped:
		return tensorString(x.Shape(), x.DType())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if shape, dtype, ok := tensorShape(rv); ok {
			return tensorString(shape, dtype)
		}
		return fmt.Sprintf("%s(len=%d)", rv.Kind().String(), rv.Len())
	case reflect.Map:
		return mapString(rv)
	case reflect.Struct:
		return rv.Type().Name() + "()"
	case reflect.Pointer:
		if rv.IsNil() {
			return "nil"
		}
		if rv.Elem().Kind() == reflect.Struct {
			return rv.Elem().Type().Name() + "()"
		}
		return value(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

// tensorShape reports the dimensions of a nested numeric slice/array. Only
// rank >= 2 values classify as tensors; flat slices stay sequences.
func tensorShape(rv reflect.Value) ([]int, string, bool) {
	var shape []int
	t := rv.Type()
	cur := rv
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if cur.IsValid() {
			shape = append(shape, cur.Len())
			if cur.Len() > 0 {
				cur = cur.Index(0)
			} else {
				cur = reflect.Value{}
			}
		} else {
			shape = append(shape, 0)
		}
		t = t.Elem()
	}
	if len(shape) < 2 || !isNumeric(t.Kind()) {
		return nil, "", false
	}
	return shape, t.Kind().String(), true
}

func tensorString(shape []int, dtype string) string {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	rendered := strings.Join(dims, ", ")
	if len(dims) == 1 {
		rendered += ","
	}
	return fmt.Sprintf("ndarray(shape=(%s), dtype=%s)", rendered, dtype)
}

func mapString(rv reflect.Value) string {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, keyString(k))
	}
	// Go maps carry no insertion order; sort for deterministic output.
	sort.Strings(keys)
	return fmt.Sprintf("dict(keys=[%s])", strings.Join(keys, ", "))
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return "'" + k.String() + "'"
	}
	return fmt.Sprint(k.Interface())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
