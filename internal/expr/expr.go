// Package expr turns typed accessor functions into dotted member paths.
//
// An accessor returns the address of the member it selects:
//
//	path, err := expr.PathOf(func(e *Employee) any { return &e.Address.Street })
//	// path == "Address.Street"
//
// The accessor is called once on a zero value whose nil struct pointers have
// been allocated, and the returned address is matched against the fields of
// that value. Embedded structs add no segment, matching Go's promotion.
package expr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidExpression is returned when an accessor does not select a member.
var ErrInvalidExpression = errors.New("invalid expression")

// maxDepth bounds allocation of pointer fields in recursive types.
const maxDepth = 8

// PathOf returns the dotted path of the member whose address fn returns.
func PathOf[T any](fn func(*T) any) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("%w: nil accessor", ErrInvalidExpression)
	}

	root := new(T)
	rv := reflect.ValueOf(root).Elem()
	if rv.Kind() != reflect.Struct {
		return "", fmt.Errorf("%w: %s is not a struct", ErrInvalidExpression, rv.Type())
	}

	allocate(rv, 0, map[reflect.Type]int{})

	result, err := call(fn, root)
	if err != nil {
		return "", err
	}

	target := reflect.ValueOf(result)
	if !target.IsValid() || target.Kind() != reflect.Pointer || target.IsNil() {
		return "", fmt.Errorf("%w: accessor must return the address of a member, got %T", ErrInvalidExpression, result)
	}

	addr := target.Pointer()
	typ := target.Type().Elem()

	segments, ok := find(rv, addr, typ, nil)
	if !ok || len(segments) == 0 {
		return "", fmt.Errorf("%w: %s does not point into %s", ErrInvalidExpression, target.Type(), rv.Type())
	}

	return strings.Join(segments, "."), nil
}

// MustPathOf is like PathOf but panics on error.
func MustPathOf[T any](fn func(*T) any) string {
	path, err := PathOf(fn)
	if err != nil {
		panic(err)
	}

	return path
}

func call[T any](fn func(*T) any, root *T) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: accessor panicked: %v", ErrInvalidExpression, r)
		}
	}()

	return fn(root), nil
}

// allocate fills nil pointer-to-struct fields so that accessors can reach
// through them. A type is expanded at most twice along one path.
func allocate(v reflect.Value, depth int, seen map[reflect.Type]int) {
	if depth >= maxDepth {
		return
	}

	t := v.Type()
	seen[t]++
	defer func() { seen[t]-- }()

	for i := range v.NumField() {
		f := v.Field(i)
		sf := t.Field(i)

		if !sf.IsExported() && !sf.Anonymous {
			continue
		}

		switch f.Kind() {
		case reflect.Struct:
			allocate(f, depth+1, seen)

		case reflect.Pointer:
			elem := f.Type().Elem()
			if elem.Kind() != reflect.Struct || seen[elem] >= 2 || !f.CanSet() {
				continue
			}

			f.Set(reflect.New(elem))
			allocate(f.Elem(), depth+1, seen)
		}
	}
}

// find searches v for the field located at addr with type typ.
func find(v reflect.Value, addr uintptr, typ reflect.Type, prefix []string) ([]string, bool) {
	t := v.Type()

	for i := range v.NumField() {
		f := v.Field(i)
		sf := t.Field(i)

		if !sf.IsExported() && !sf.Anonymous {
			continue
		}

		path := prefix
		if !sf.Anonymous {
			path = append(append([]string(nil), prefix...), sf.Name)
		}

		if f.UnsafeAddr() == addr && f.Type() == typ && !sf.Anonymous {
			return path, true
		}

		inner := f
		if inner.Kind() == reflect.Pointer {
			if inner.IsNil() {
				continue
			}

			inner = inner.Elem()
		}

		if inner.Kind() != reflect.Struct {
			continue
		}

		if segments, ok := find(inner, addr, typ, path); ok {
			return segments, true
		}
	}

	return nil, false
}
