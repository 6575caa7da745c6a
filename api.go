package appctx

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// RegisterComponent registers a pre-built instance as a component declared as T.
// Typically, `T` would be one of:
// - An interface, in this case passed value must implement it. Used when T may have multiple implementations.
// - A pointer to a struct, for instance `RegisterComponent[*Foo](c, &Foo{})`.
func RegisterComponent[T any](c *Context, instance T) error {
	return c.Register(Instance(instance))
}

// RegisterComponentFactory registers a factory-backed component declared as T.
// The definition is active only when all given conditions hold.
func RegisterComponentFactory[T any](c *Context, fn func(ctx context.Context, env Environment, r Resolver) (T, error), conditions ...Condition) error {
	return c.Register(Factory(fn).When(conditions...))
}

// SetEntryPoint designates T as the component Context.Run resolves and runs.
// By default, the component declared as Application is used.
func SetEntryPoint[T Application](c *Context) *Context {
	c.entryPoint = elem[T]()
	return c
}

// Resolve retrieves or creates the component declared as T.
func Resolve[T any](ctx context.Context, r Resolver) (T, error) {
	a, err := r.Resolve(ctx, elem[T]())
	if err != nil {
		return empty[T](), err
	}

	casted, ok := a.(T)
	if !ok {
		return empty[T](), fmt.Errorf("%w: %s. %T does not implement %s", ErrComponentInvalid, NameOf[T](), a, NameOf[T]())
	}

	return casted, nil
}

// MustResolve is like Resolve but panics if an error occurs.
func MustResolve[T any](ctx context.Context, r Resolver) T {
	return must(Resolve[T](ctx, r))
}

// Build creates a new *T and injects its exported fields, see InjectInto. The result is not
// registered in the container.
func Build[T any](ctx context.Context, r Resolver) (*T, error) {
	s := new(T)

	err := InjectInto(ctx, r, s)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// InjectInto populates exported fields of the struct target points to with components of their types.
// Fields with no active definition are skipped, any other resolution error is returned.
func InjectInto(ctx context.Context, r Resolver, target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to a struct, got %T", ErrComponentInvalid, target)
	}

	val = val.Elem()
	typ := val.Type()

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		instance, err := r.Resolve(ctx, field.Type)

		var noActive *NoActiveDefinitionError
		if errors.As(err, &noActive) && noActive.typ == field.Type {
			continue
		}
		if err != nil {
			return err
		}

		value := reflect.ValueOf(instance)
		if !value.Type().AssignableTo(field.Type) {
			return fmt.Errorf("%w: %s cannot be assigned to field %s.%s", ErrComponentInvalid, value.Type(), typ, field.Name)
		}

		val.Field(i).Set(value)
	}

	return nil
}

func must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}
