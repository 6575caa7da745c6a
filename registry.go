package appctx

import (
	"fmt"
	"reflect"
	"slices"
)

// Registry stores definitions keyed by their declared type. Types and definitions keep
// their registration order, which only matters for diagnostics.
type Registry struct {
	types       []reflect.Type
	definitions map[reflect.Type][]*Definition
}

// NewRegistry creates a new empty Registry
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[reflect.Type][]*Definition),
	}
}

// Register adds definitions. Several definitions of the same type are allowed, whether they
// are mutually exclusive is checked when the container is activated.
func (r *Registry) Register(defs ...*Definition) error {
	for _, def := range defs {
		if def == nil {
			return fmt.Errorf("%w: nil definition", ErrDefinitionInvalid)
		}

		if def.invalid != nil {
			return def.invalid
		}
	}

	for _, def := range defs {
		if _, ok := r.definitions[def.typ]; !ok {
			r.types = append(r.types, def.typ)
		}

		r.definitions[def.typ] = append(r.definitions[def.typ], def)
	}

	return nil
}

// DefinitionsFor returns all definitions registered for typ in registration order.
func (r *Registry) DefinitionsFor(typ reflect.Type) []*Definition {
	return slices.Clone(r.definitions[typ])
}

// Has reports whether at least one definition is registered for typ.
func (r *Registry) Has(typ reflect.Type) bool {
	return len(r.definitions[typ]) > 0
}

// Types returns the registered types in order of their first registration.
func (r *Registry) Types() []reflect.Type {
	return slices.Clone(r.types)
}

// Definitions returns all definitions grouped by type in registration order.
func (r *Registry) Definitions() []*Definition {
	var result []*Definition
	for _, typ := range r.types {
		result = append(result, r.definitions[typ]...)
	}
	return result
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	count := 0
	for _, defs := range r.definitions {
		count += len(defs)
	}
	return count
}
