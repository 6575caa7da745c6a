package appctx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error variables used throughout the package
var (
	// ErrNoActiveDefinition is matched by NoActiveDefinitionError.
	ErrNoActiveDefinition = errors.New("no active definition")

	// ErrAmbiguousDefinition is matched by AmbiguousDefinitionError.
	ErrAmbiguousDefinition = errors.New("ambiguous definition")

	// ErrCyclicDependency is matched by CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrConstruction is matched by ConstructionError.
	ErrConstruction = errors.New("component construction failed")

	// ErrIllegalState is returned when an operation is not allowed in the current lifecycle state,
	// like registering a component after the context is processed.
	ErrIllegalState = errors.New("illegal application context state")

	// ErrDefinitionInvalid is returned when a definition or a set of definitions can never be resolved.
	ErrDefinitionInvalid = errors.New("definition invalid")

	// ErrComponentInvalid is returned when a resolved component cannot be cast to the requested type.
	ErrComponentInvalid = errors.New("component invalid")

	// ErrNotApplication is returned when the entry point component does not implement Application.
	ErrNotApplication = errors.New("entry point is not an Application")
)

// NoActiveDefinitionError is returned when a type has zero active definitions.
type NoActiveDefinitionError struct {
	Type string

	typ reflect.Type
}

func (e *NoActiveDefinitionError) Error() string {
	return fmt.Sprintf("%s: '%s'", ErrNoActiveDefinition, e.Type)
}

func (e *NoActiveDefinitionError) Unwrap() error {
	return ErrNoActiveDefinition
}

// AmbiguousDefinitionError is returned when more than one definition of a type is active at once.
type AmbiguousDefinitionError struct {
	Type       string
	Conditions []Condition
}

func (e *AmbiguousDefinitionError) Error() string {
	conditions := make([]string, len(e.Conditions))
	for i, c := range e.Conditions {
		conditions[i] = conditionString(c)
	}

	return fmt.Sprintf("%s: '%s' has %d active definitions, conditions: [%s]",
		ErrAmbiguousDefinition, e.Type, len(e.Conditions), strings.Join(conditions, ", "))
}

func (e *AmbiguousDefinitionError) Unwrap() error {
	return ErrAmbiguousDefinition
}

// CyclicDependencyError is returned when resolution re-enters a type that is still under construction.
// Cycle starts and ends with the same type.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Cycle, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}

// ConstructionError wraps an error returned by a component's constructor, factory or Init method.
type ConstructionError struct {
	Type  string
	Cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: '%s': %v", ErrConstruction, e.Type, e.Cause)
}

func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Cause}
}

// isResolutionError reports whether err already is one of the resolution error kinds,
// those travel up the resolution chain unchanged.
func isResolutionError(err error) bool {
	var (
		noActive     *NoActiveDefinitionError
		ambiguous    *AmbiguousDefinitionError
		cyclic       *CyclicDependencyError
		construction *ConstructionError
	)

	return errors.As(err, &noActive) ||
		errors.As(err, &ambiguous) ||
		errors.As(err, &cyclic) ||
		errors.As(err, &construction)
}
