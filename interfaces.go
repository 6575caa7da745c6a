package appctx

import (
	"context"
	"reflect"

	"github.com/flightdesk/appctx/pkg/core"
)

// Environment is the property source conditions and factories read from.
type Environment = core.Environment

// Resolver turns a declared component type into its singleton instance.
//
// The resolver passed to a constructor or factory may be kept by the component. While the
// resolution that constructs the component is in progress it must only be used from the
// constructing goroutine, afterwards it is safe for concurrent use.
type Resolver interface {
	// Resolve returns the instance of the component declared as typ, constructing it and
	// its dependencies on first access.
	Resolve(ctx context.Context, typ reflect.Type) (any, error)
}

// Application is the entry component of an application context. It is resolved and run
// exactly once per Context.Run call.
type Application interface {
	Run(ctx context.Context, args []string) error
}

// BeforeRunListener is executed once after processing and before the application runs.
// Typically used for one-time initialization like preparing a storage backend.
type BeforeRunListener func(ctx context.Context, r Resolver) error
