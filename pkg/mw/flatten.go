package mw

import (
	"context"
	"fmt"
	"reflect"
	"slices"
)

// Flatten normalizes middleware given as single functions, slices of them or
// arbitrarily nested slices into one ordered sequence. Anything that is not a
// middleware, including nil functions, is rejected with a *ListError.
func Flatten[V any](items ...any) ([]Func[V], error) {
	out := make([]Func[V], 0, len(items))
	return flatten(out, items, nil)
}

func flatten[V any](out []Func[V], items []any, path []int) ([]Func[V], error) {
	for i, item := range items {
		at := append(slices.Clone(path), i)

		switch fn := item.(type) {
		case Func[V]:
			if fn == nil {
				return nil, &ListError{Path: at, Err: ErrNilMiddleware}
			}
			out = append(out, fn)
			continue
		case func(context.Context, V, Next[V]):
			if fn == nil {
				return nil, &ListError{Path: at, Err: ErrNilMiddleware}
			}
			out = append(out, fn)
			continue
		case []Func[V]:
			nested := make([]any, len(fn))
			for j := range fn {
				nested[j] = fn[j]
			}
			var err error
			if out, err = flatten(out, nested, at); err != nil {
				return nil, err
			}
			continue
		case []any:
			var err error
			if out, err = flatten(out, fn, at); err != nil {
				return nil, err
			}
			continue
		case nil:
			return nil, &ListError{Path: at, Err: ErrNilMiddleware}
		}

		v := reflect.ValueOf(item)

		// named function types with the middleware signature
		if v.Kind() == reflect.Func && v.Type().ConvertibleTo(funcType[V]()) {
			if v.IsNil() {
				return nil, &ListError{Path: at, Err: ErrNilMiddleware}
			}
			out = append(out, v.Convert(funcType[V]()).Interface().(Func[V]))
			continue
		}

		// other slice and array types, e.g. [][]Func[V]
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return nil, &ListError{Path: at, Err: fmt.Errorf("%w: %T", ErrNotMiddleware, item)}
		}
		nested := make([]any, v.Len())
		for j := range nested {
			nested[j] = v.Index(j).Interface()
		}
		var err error
		if out, err = flatten(out, nested, at); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func funcType[V any]() reflect.Type {
	return reflect.TypeFor[Func[V]]()
}
