package appctx

import "context"

// Initer is an optional interface that can be implemented by a component.
type Initer interface {
	// Init is being called right after the component is constructed and before it is cached.
	// If it returns an error, the construction fails with ConstructionError and the instance is dropped.
	//
	// The initialization process works as follows:
	// 1. The component's dependencies are resolved depth-first, so they are already initialized
	// 2. The component is constructed by its definition
	// 3. Init() is called with the context of the resolution
	// 4. Only after Init() succeeds, the instance is cached and handed out
	Init(ctx context.Context) error
}

// Shutdowner is an optional interface that can be implemented by a component.
type Shutdowner interface {
	// Shutdown is being called when the application context terminates.
	// Components are shut down in reverse construction order, so a component is always shut down
	// before its dependencies. Errors are collected and returned from Context.Run(), they do not
	// stop other components from shutting down.
	// ctx has a timeout configured via Context.ShutdownTimeout().
	Shutdown(ctx context.Context) error
}

// HealthChecker is an optional interface that can be implemented by a component.
type HealthChecker interface {
	// HealthCheck is being called when Context.HealthCheck() is called.
	// Only already constructed components are checked, all of them concurrently.
	// ctx has a timeout configured via Context.HealthCheckTimeout().
	HealthCheck(ctx context.Context) error
}
