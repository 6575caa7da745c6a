package appctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flightdesk/appctx/pkg/dag"
)

type ContextKey int

const (
	CtxValue ContextKey = iota
)

// State is a lifecycle state of Context. States only move forward.
type State int

const (
	// StateUnprocessed accepts registrations.
	StateUnprocessed State = iota
	// StateProcessed has activated definitions, components can be resolved.
	StateProcessed
	// StateRunning is executing before-run listeners and the application.
	StateRunning
	// StateTerminated has finished running or failed processing, components are shut down.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUnprocessed:
		return "unprocessed"
	case StateProcessed:
		return "processed"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Context is an application context: it owns the registry and the container,
// and drives the application through its lifecycle.
type Context struct {
	id     string
	env    Environment
	config *Config

	registry  *Registry
	container *Container

	listeners  []BeforeRunListener
	entryPoint reflect.Type

	metrics    *Metrics
	metricsErr error

	log *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates and returns a new Context reading properties from env.
func New(env Environment) *Context {
	registry := NewRegistry()
	id := uuid.NewString()

	return &Context{
		id:         id,
		env:        env,
		config:     defaultConfig(),
		registry:   registry,
		container:  NewContainer(env, registry),
		entryPoint: elem[Application](),
		log:        slog.New(slog.DiscardHandler).With("context", id),
	}
}

// FromContext retrieves a *Context from the provided context, expecting it to be stored under the CtxValue key.
// Panics if ctx misses the value.
func FromContext(ctx context.Context) *Context {
	return ctx.Value(CtxValue).(*Context)
}

// ProcessTimeout sets the timeout for eager construction of the components.
func (c *Context) ProcessTimeout(t time.Duration) *Context {
	c.config.ProcessTimeout = t
	return c
}

// HealthCheckTimeout sets the timeout for the healthcheck of the components.
func (c *Context) HealthCheckTimeout(t time.Duration) *Context {
	c.config.HealthCheckTimeout = t
	return c
}

// ShutdownTimeout sets the timeout for the Shutdown of the components.
func (c *Context) ShutdownTimeout(t time.Duration) *Context {
	c.config.ShutdownTimeout = t
	return c
}

// Eager makes ProcessComponents construct every active component instead of waiting for the first resolution.
func (c *Context) Eager(eager bool) *Context {
	c.config.Eager = eager
	return c
}

// SetLogger sets the logger instance to be used by the context and its container.
func (c *Context) SetLogger(logger *slog.Logger) *Context {
	c.log = logger.With("context", c.id)
	c.container.SetLogger(c.log)
	return c
}

// EnableMetrics registers construction metrics with reg. A registration failure is reported by ProcessComponents.
func (c *Context) EnableMetrics(reg prometheus.Registerer) *Context {
	c.metrics, c.metricsErr = NewMetrics(reg)
	c.container.SetMetrics(c.metrics)
	return c
}

// ID returns a random identifier of the context, it is attached to every log record.
func (c *Context) ID() string {
	return c.id
}

// Environment returns the environment definitions are activated against.
func (c *Context) Environment() Environment {
	return c.env
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Register adds definitions. Only allowed before the components are processed.
func (c *Context) Register(defs ...*Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnprocessed {
		return fmt.Errorf("%w: cannot register components in state %s", ErrIllegalState, c.state)
	}

	return c.registry.Register(defs...)
}

// RegisterComponentClass registers a definition built by Constructor or Injected,
// active only when all given conditions hold.
func (c *Context) RegisterComponentClass(def *Definition, conditions ...Condition) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrDefinitionInvalid)
	}

	return c.Register(def.When(conditions...))
}

// AddBeforeRunListener adds fn to the listeners executed in registration order right before
// the application runs. Only allowed before the context is running.
func (c *Context) AddBeforeRunListener(fn BeforeRunListener) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnprocessed && c.state != StateProcessed {
		return fmt.Errorf("%w: cannot add listeners in state %s", ErrIllegalState, c.state)
	}

	c.listeners = append(c.listeners, fn)

	return nil
}

// ProcessComponents validates the config, activates definitions and checks the dependency graph for cycles.
// With Eager set, it also constructs all active components. Any failure terminates the context and shuts down
// components constructed so far.
func (c *Context) ProcessComponents(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnprocessed {
		return fmt.Errorf("%w: cannot process components in state %s", ErrIllegalState, c.state)
	}

	return c.process(ctx)
}

// Resolve retrieves or creates the component declared as typ. Only allowed after the components are processed.
func (c *Context) Resolve(ctx context.Context, typ reflect.Type) (any, error) {
	state := c.State()
	if state != StateProcessed && state != StateRunning {
		return nil, fmt.Errorf("%w: cannot resolve components in state %s", ErrIllegalState, state)
	}

	c.log.Debug("Resolving", "component", c.container.name(typ))

	return c.container.Resolve(ctx, typ)
}

// Run processes the components if needed, executes before-run listeners, resolves the entry point and runs it
// with args. When the application returns, all constructed components are shut down. Errors of the application
// and of the shutdown are joined.
func (c *Context) Run(ctx context.Context, args []string) error {
	c.mu.Lock()

	if c.state == StateUnprocessed {
		if err := c.process(ctx); err != nil {
			c.mu.Unlock()
			return err
		}
	}

	if c.state != StateProcessed {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot run in state %s", ErrIllegalState, state)
	}

	c.state = StateRunning
	listeners := c.listeners
	c.mu.Unlock()

	ctx = context.WithValue(ctx, CtxValue, c)

	c.log.Info("Running", "entryPoint", c.container.name(c.entryPoint), "args", args)

	runErr := c.run(ctx, listeners, args)
	if runErr != nil {
		c.log.Warn("Run failed", "error", runErr)
	}

	c.setState(StateTerminated)

	return errors.Join(runErr, c.shutdown(ctx))
}

// HealthCheck verifies the health of constructed components within a configurable timeout.
func (c *Context) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthCheckTimeout)
	defer cancel()

	return c.container.HealthCheck(ctx)
}

// Graph returns a snapshot of the dependency graph of the components.
func (c *Context) Graph() *dag.DAG[reflect.Type, *Definition] {
	return c.container.Graph()
}

// Definitions returns all registered definitions.
func (c *Context) Definitions() []*Definition {
	return c.registry.Definitions()
}

// Components returns definitions of the constructed components in construction order.
func (c *Context) Components() []*Definition {
	return c.container.Resolved()
}

// process must be called with c.mu held.
func (c *Context) process(ctx context.Context) error {
	if err := c.processComponents(ctx); err != nil {
		c.log.Warn("Processing failed", "error", err)

		c.state = StateTerminated

		return errors.Join(err, c.shutdown(ctx))
	}

	c.state = StateProcessed

	graph := c.container.Graph()
	c.log.Info("Components processed",
		"definitions", c.registry.Len(),
		"constructed", len(c.container.Resolved()),
		"active", graph.VertexCount(),
		"dependencies", graph.EdgeCount(),
	)

	return nil
}

func (c *Context) processComponents(ctx context.Context) error {
	if err := errors.Join(c.config.Validate(ctx), c.metricsErr); err != nil {
		return err
	}

	if err := c.container.Activate(); err != nil {
		return err
	}

	if err := c.container.Validate(); err != nil {
		return err
	}

	if !c.config.Eager {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ProcessTimeout)
	defer cancel()

	for _, typ := range c.registry.Types() {
		if !c.container.IsActive(typ) {
			continue
		}

		if _, err := c.container.Resolve(ctx, typ); err != nil {
			return err
		}
	}

	return nil
}

func (c *Context) run(ctx context.Context, listeners []BeforeRunListener, args []string) error {
	for i, listener := range listeners {
		if err := listener(ctx, c); err != nil {
			return fmt.Errorf("before run listener #%d: %w", i, err)
		}
	}

	instance, err := c.container.Resolve(ctx, c.entryPoint)
	if err != nil {
		return err
	}

	app, ok := instance.(Application)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotApplication, instance)
	}

	return app.Run(ctx, args)
}

func (c *Context) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.ShutdownTimeout)
	defer cancel()

	err := c.container.Shutdown(ctx)
	if err != nil {
		c.log.Warn("Shutdown failed", "error", err)
		return err
	}

	c.log.Info("Terminated")

	return nil
}

func (c *Context) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
}
