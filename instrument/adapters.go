package instrument

import "context"

// Wrap1 instruments a one-argument function, preserving its signature.
func Wrap1[A, R any](w *Wrapper, fn func(A) (R, error)) func(A) (R, error) {
	if fn == nil {
		return func(A) (R, error) {
			var zero R
			return zero, ErrNilFunc
		}
	}
	name, file := funcIdentity(fn)
	inner := w.wrapNamed(name, file, func(_ context.Context, args ...any) (any, error) {
		r, err := fn(args[0].(A))
		return r, err
	})
	return func(a A) (R, error) {
		out, err := inner(context.Background(), a)
		r, _ := out.(R)
		return r, err
	}
}

// Wrap2 instruments a two-argument function, preserving its signature.
func Wrap2[A, B, R any](w *Wrapper, fn func(A, B) (R, error)) func(A, B) (R, error) {
	if fn == nil {
		return func(A, B) (R, error) {
			var zero R
			return zero, ErrNilFunc
		}
	}
	name, file := funcIdentity(fn)
	inner := w.wrapNamed(name, file, func(_ context.Context, args ...any) (any, error) {
		r, err := fn(args[0].(A), args[1].(B))
		return r, err
	})
	return func(a A, b B) (R, error) {
		out, err := inner(context.Background(), a, b)
		r, _ := out.(R)
		return r, err
	}
}
