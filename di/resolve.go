package di

import (
	"fmt"
	"reflect"
)

// KeyOf returns the contract key for type T.
//
//	di.KeyOf[*logger.Factory]() // "*github.com/kbukum/hostkit/logger.Factory"
func KeyOf[T any]() string {
	return KeyFor(reflect.TypeFor[T]())
}

// KeyFor returns the contract key for a reflected type. Named types are
// qualified with their full package path so that equally named types in
// different packages never collide.
func KeyFor(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + KeyFor(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + KeyFor(t.Elem())
		}
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// MustResolve resolves a component with type safety, panics on error.
//
// Example:
//
//	env := di.MustResolve[*bootstrap.Environment](p, di.KeyOf[*bootstrap.Environment]())
func MustResolve[T any](r Resolver, key string) T {
	result, err := Resolve[T](r, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a component with type safety, returns error on failure.
//
// Example:
//
//	factory, err := di.Resolve[*logger.Factory](p, di.KeyOf[*logger.Factory]())
//	if err != nil {
//	    return fmt.Errorf("failed to get logger factory: %w", err)
//	}
func Resolve[T any](r Resolver, key string) (T, error) {
	var zero T
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a component, returns zero value and false if not found.
// Use this when a dependency is optional.
func TryResolve[T any](r Resolver, key string) (T, bool) {
	var zero T
	if !r.Contains(key) {
		return zero, false
	}
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, false
	}
	result, ok := instance.(T)
	if !ok {
		return zero, false
	}
	return result, true
}

// Get resolves T by its own type key.
func Get[T any](r Resolver) (T, error) {
	return Resolve[T](r, KeyOf[T]())
}

// MustGet resolves T by its own type key and panics on failure.
func MustGet[T any](r Resolver) T {
	return MustResolve[T](r, KeyOf[T]())
}

// AddInstance registers v as a singleton keyed by T.
func AddInstance[T any](reg *Registry, v T) error {
	return reg.Add(Instance(KeyOf[T](), v))
}

// AddSingleton registers a lazily built singleton keyed by T.
func AddSingleton[T any](reg *Registry, f func(r Resolver) (T, error)) error {
	return reg.Add(NewSingleton(KeyOf[T](), erase(f)))
}

// AddScoped registers a per-scope service keyed by T.
func AddScoped[T any](reg *Registry, f func(r Resolver) (T, error)) error {
	return reg.Add(NewScoped(KeyOf[T](), erase(f)))
}

// AddTransient registers a per-resolution service keyed by T.
func AddTransient[T any](reg *Registry, f func(r Resolver) (T, error)) error {
	return reg.Add(NewTransient(KeyOf[T](), erase(f)))
}

func erase[T any](f func(r Resolver) (T, error)) Factory {
	if f == nil {
		return nil
	}
	return func(r Resolver) (any, error) {
		v, err := f(r)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
