package appctx

import (
	"context"
	"fmt"
	"reflect"
)

// Kind is the construction strategy of a definition.
type Kind int

const (
	// KindInstance definitions hand out a pre-built value.
	KindInstance Kind = iota
	// KindConstructor definitions resolve declared dependencies first and then call a constructor.
	KindConstructor
	// KindFactory definitions call a function that pulls dependencies from the resolver on demand.
	KindFactory
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindConstructor:
		return "constructor"
	case KindFactory:
		return "factory"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type buildFn func(ctx context.Context, env Environment, r Resolver) (any, error)

// Definition describes how to produce one component. It is identified by the declared type,
// the contract other components depend on. Use Instance, Constructor, Injected, Factory or Supplier
// to create one.
type Definition struct {
	typ          reflect.Type
	name         string
	kind         Kind
	dependencies []reflect.Type
	condition    Condition
	build        buildFn

	// invalid is reported when the definition is registered.
	invalid error
}

// When attaches conditions to the definition, all of them must hold for it to be active.
func (d *Definition) When(conditions ...Condition) *Definition {
	for _, c := range conditions {
		if c == nil {
			continue
		}

		if d.condition == nil {
			d.condition = c
			continue
		}

		d.condition = And(d.condition, c)
	}

	return d
}

// Type returns the declared type.
func (d *Definition) Type() reflect.Type {
	return d.typ
}

// Name returns a name of the declared type.
func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Kind() Kind {
	return d.kind
}

// Condition returns the activation condition, nil means always active.
func (d *Definition) Condition() Condition {
	return d.condition
}

// Dependencies returns statically declared dependencies. Factories pull their dependencies
// at runtime, so they have none.
func (d *Definition) Dependencies() []reflect.Type {
	return d.dependencies
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s[kind=%s, condition=%s]", d.name, d.kind, conditionString(d.condition))
}

func (d *Definition) active(env Environment) bool {
	return holds(d.condition, env)
}

func newDefinition[T any](kind Kind, build buildFn, dependencies ...reflect.Type) *Definition {
	return &Definition{
		typ:          elem[T](),
		name:         NameOf[T](),
		kind:         kind,
		dependencies: dependencies,
		build:        build,
	}
}

// Instance registers an already built value as a component declared as T.
// If the value implements Initer, Init() will be called on first resolution.
func Instance[T any](value T) *Definition {
	def := newDefinition[T](KindInstance, func(context.Context, Environment, Resolver) (any, error) {
		return value, nil
	})

	if isNil(value) {
		def.invalid = fmt.Errorf("%w: nil instance given for %s", ErrDefinitionInvalid, def.name)
	}

	return def
}

// Factory registers a component built by fn. fn receives the environment and the resolver of the
// current resolution chain, dependencies resolved through it are subject to the same cycle detection.
func Factory[T any](fn func(ctx context.Context, env Environment, r Resolver) (T, error)) *Definition {
	return newDefinition[T](KindFactory, func(ctx context.Context, env Environment, r Resolver) (any, error) {
		return fn(ctx, env, r)
	})
}

// Supplier registers a component built by a function without arguments.
func Supplier[T any](fn func() (T, error)) *Definition {
	return newDefinition[T](KindFactory, func(context.Context, Environment, Resolver) (any, error) {
		return fn()
	})
}

// Injected registers a component declared as I and built as *S. Exported fields of S are
// injected with the components of their types, fields of unknown types are left as is.
func Injected[I any, S any]() *Definition {
	def := newDefinition[I](KindConstructor, func(ctx context.Context, _ Environment, r Resolver) (any, error) {
		s := new(S)
		if err := InjectInto(ctx, r, s); err != nil {
			return nil, err
		}
		return s, nil
	}, injectableFields(elem[S]())...)

	if elem[S]().Kind() != reflect.Struct {
		def.invalid = fmt.Errorf("%w: type parameter S (%s) must be a struct", ErrDefinitionInvalid, NameOf[S]())
	} else if _, ok := any(new(S)).(I); !ok {
		def.invalid = fmt.Errorf("%w: %s does not implement %s", ErrDefinitionInvalid, NameOf[*S](), def.name)
	}

	return def
}

func injectableFields(typ reflect.Type) []reflect.Type {
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var fields []reflect.Type
	for i := range typ.NumField() {
		field := typ.Field(i)
		if field.IsExported() {
			fields = append(fields, field.Type)
		}
	}

	return fields
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	val := reflect.ValueOf(value)
	switch val.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return val.IsNil()
	default:
		return false
	}
}
