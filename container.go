package appctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flightdesk/appctx/pkg/dag"
)

// Container resolves components: it activates definitions against the environment, constructs
// singletons on demand and stores instances and the dependency graph.
//
// A single mutex is held for a whole top-level resolution, so concurrent first access of a type
// converges on one instance. Nested resolutions done by constructors and factories go through
// the resolver they receive and never re-acquire it.
type Container struct {
	env      Environment
	registry *Registry
	logger   *slog.Logger
	metrics  *Metrics

	mu        sync.Mutex
	activated bool
	active    map[reflect.Type]*Definition
	ambiguous map[reflect.Type]*AmbiguousDefinitionError
	problems  error

	instances map[reflect.Type]any
	order     []reflect.Type
	graph     *dag.DAG[reflect.Type, *Definition]
}

// NewContainer creates a new Container resolving definitions from registry in env.
func NewContainer(env Environment, registry *Registry) *Container {
	return &Container{
		env:       env,
		registry:  registry,
		logger:    slog.New(slog.DiscardHandler),
		active:    make(map[reflect.Type]*Definition),
		ambiguous: make(map[reflect.Type]*AmbiguousDefinitionError),
		instances: make(map[reflect.Type]any),
		graph:     dag.New[reflect.Type, *Definition](),
	}
}

func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// SetMetrics makes the container record construction metrics, nil disables them.
func (c *Container) SetMetrics(metrics *Metrics) {
	c.metrics = metrics
}

// Activate evaluates conditions of all definitions, exactly once per container. Results are kept
// for the container's lifetime. More than one active definition of a type is reported as
// AmbiguousDefinitionError, zero active definitions only fail when the type is resolved.
// If Activate is never called, activation happens on the first Resolve.
func (c *Container) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.activate()
}

func (c *Container) activate() error {
	if c.activated {
		return c.problems
	}
	c.activated = true

	var errs []error

	for _, typ := range c.registry.Types() {
		defs := c.registry.DefinitionsFor(typ)

		if len(defs) > 1 && slices.ContainsFunc(defs, func(d *Definition) bool { return d.condition == nil }) {
			errs = append(errs, fmt.Errorf("%w: %s has %d definitions, all of them must be conditional",
				ErrDefinitionInvalid, defs[0].name, len(defs)))
		}

		var active []*Definition
		for _, def := range defs {
			if def.active(c.env) {
				active = append(active, def)
			}
		}

		switch len(active) {
		case 0:
			c.logger.Debug("No active definition", "component", defs[0].name)
		case 1:
			c.active[typ] = active[0]
		default:
			conditions := make([]Condition, len(active))
			for i, def := range active {
				conditions[i] = def.condition
			}

			err := &AmbiguousDefinitionError{Type: defs[0].name, Conditions: conditions}
			c.ambiguous[typ] = err
			errs = append(errs, err)
		}
	}

	c.problems = errors.Join(errs...)

	return c.problems
}

// Validate builds the dependency graph of active definitions from their statically declared
// dependencies and reports the first cycle found. Dependencies without an active definition
// are not reported, they fail lazily on resolution.
func (c *Container) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.activate(); err != nil {
		return err
	}

	types := c.registry.Types()

	for _, typ := range types {
		if def, ok := c.active[typ]; ok {
			c.graph.AddVertexIfNotExist(typ, def)
		}
	}

	for _, typ := range types {
		def, ok := c.active[typ]
		if !ok {
			continue
		}

		for _, dependency := range def.dependencies {
			if _, ok := c.active[dependency]; !ok {
				continue
			}

			err := c.graph.AddEdge(typ, dependency)

			var cycleErr *dag.CycleError[reflect.Type]
			if errors.As(err, &cycleErr) {
				return &CyclicDependencyError{Cycle: c.names(cycleErr.Path)}
			}
		}
	}

	return nil
}

// Resolve returns the singleton declared as typ, constructing it and its dependencies if needed.
func (c *Container) Resolve(ctx context.Context, typ reflect.Type) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.activate() //nolint:errcheck // problems are reported per type

	ch := &chain{container: c}
	defer ch.done.Store(true)

	return c.resolve(ctx, ch, typ)
}

// IsActive reports whether typ has exactly one active definition.
func (c *Container) IsActive(typ reflect.Type) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.activate() //nolint:errcheck // problems are reported per type

	_, ok := c.active[typ]
	return ok
}

// Resolved returns definitions of all constructed components in construction order.
func (c *Container) Resolved() []*Definition {
	c.mu.Lock()
	defer c.mu.Unlock()

	defs := make([]*Definition, len(c.order))
	for i, typ := range c.order {
		defs[i] = c.active[typ]
	}

	return defs
}

// Graph returns a snapshot of the dependency graph: edges declared by active definitions once
// Validate is called, and every edge that was followed during resolution so far.
func (c *Container) Graph() *dag.DAG[reflect.Type, *Definition] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.graph.Clone()
}

// Shutdown shuts down constructed components implementing Shutdowner in reverse construction order,
// so dependents are always shut down before their dependencies.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	for _, entry := range slices.Backward(c.snapshot()) {
		shutdowner, ok := entry.instance.(Shutdowner)
		if !ok {
			continue
		}

		logger := c.logger.With("component", entry.name)
		logger.Debug("Shutting down")

		if err := shutdowner.Shutdown(ctx); err != nil {
			logger.Warn("Shutdown failed", "error", err)
			errs = append(errs, fmt.Errorf("shutting down %s: %w", entry.name, err))
			continue
		}

		logger.Debug("Shut down successfully")
	}

	return errors.Join(errs...)
}

// HealthCheck concurrently checks constructed components implementing HealthChecker.
func (c *Container) HealthCheck(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, entry := range c.snapshot() {
		healthChecker, ok := entry.instance.(HealthChecker)
		if !ok {
			continue
		}

		g.Go(func() error {
			if err := healthChecker.HealthCheck(ctx); err != nil {
				c.logger.Warn("Health check failed", "component", entry.name, "error", err)
				return fmt.Errorf("health check of %s: %w", entry.name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

type instanceEntry struct {
	name     string
	instance any
}

func (c *Container) snapshot() []instanceEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]instanceEntry, len(c.order))
	for i, typ := range c.order {
		entries[i] = instanceEntry{name: c.active[typ].name, instance: c.instances[typ]}
	}

	return entries
}

func (c *Container) resolve(ctx context.Context, ch *chain, typ reflect.Type) (any, error) {
	if i := slices.Index(ch.path, typ); i >= 0 {
		cycle := append(slices.Clone(ch.path[i:]), typ)
		c.logger.Warn("Cyclic dependency detected", "cycle", c.names(cycle))
		return nil, &CyclicDependencyError{Cycle: c.names(cycle)}
	}

	if instance, ok := c.instances[typ]; ok {
		ch.record(typ)
		return instance, nil
	}

	def, err := c.definition(typ)
	if err != nil {
		return nil, err
	}

	ch.push(typ)
	instance, err := c.construct(ctx, ch, def)
	dependencies := ch.pop()

	if err != nil {
		return nil, err
	}

	c.instances[typ] = instance
	c.order = append(c.order, typ)

	c.graph.AddVertexIfNotExist(typ, def)
	for _, dependency := range dependencies {
		c.addEdge(typ, dependency)
	}

	ch.record(typ)

	return instance, nil
}

func (c *Container) construct(ctx context.Context, ch *chain, def *Definition) (any, error) {
	logger := c.logger.With("component", def.name)
	logger.Debug("Constructing", "kind", def.kind)

	start := time.Now()

	instance, err := def.build(ctx, c.env, ch)
	if err == nil && isNil(instance) {
		err = fmt.Errorf("%w: %s returned nil", ErrComponentInvalid, def.kind)
	}

	if err == nil {
		if initer, ok := instance.(Initer); ok {
			logger.Debug("Calling Init method")
			err = initer.Init(ctx)
		}
	}

	c.metrics.observe(def.name, time.Since(start), err)

	if err != nil {
		if isResolutionError(err) {
			return nil, err
		}

		logger.Warn("Construction failed", "error", err)
		return nil, &ConstructionError{Type: def.name, Cause: err}
	}

	logger.Debug("Constructed", "duration", time.Since(start))

	return instance, nil
}

func (c *Container) definition(typ reflect.Type) (*Definition, error) {
	if err, ok := c.ambiguous[typ]; ok {
		return nil, err
	}

	if def, ok := c.active[typ]; ok {
		return def, nil
	}

	return nil, &NoActiveDefinitionError{Type: c.name(typ), typ: typ}
}

func (c *Container) addEdge(parent, typ reflect.Type) {
	err := c.graph.AddEdge(parent, typ)
	if err != nil && !errors.Is(err, dag.ErrEdgeAlreadyExists) {
		c.logger.Debug("Dependency edge not recorded", "from", c.name(parent), "to", c.name(typ), "error", err)
	}
}

func (c *Container) name(typ reflect.Type) string {
	if defs := c.registry.DefinitionsFor(typ); len(defs) > 0 {
		return defs[0].name
	}
	return typ.String()
}

func (c *Container) names(types []reflect.Type) []string {
	names := make([]string, len(types))
	for i, typ := range types {
		names[i] = c.name(typ)
	}
	return names
}

// chain is the resolver handed to constructors and factories. It carries the types currently
// under construction on this resolution chain and the dependencies each of them resolved so far.
//
// A chain belongs to the goroutine running the top-level resolution. Once that resolution returns
// the chain is done, and a component that kept it resolves through Container.Resolve instead.
type chain struct {
	container    *Container
	path         []reflect.Type
	dependencies [][]reflect.Type
	done         atomic.Bool
}

func (ch *chain) Resolve(ctx context.Context, typ reflect.Type) (any, error) {
	if ch.done.Load() {
		return ch.container.Resolve(ctx, typ)
	}

	return ch.container.resolve(ctx, ch, typ)
}

func (ch *chain) push(typ reflect.Type) {
	ch.path = append(ch.path, typ)
	ch.dependencies = append(ch.dependencies, nil)
}

func (ch *chain) pop() []reflect.Type {
	last := len(ch.path) - 1
	dependencies := ch.dependencies[last]

	ch.path = ch.path[:last]
	ch.dependencies = ch.dependencies[:last]

	return dependencies
}

// record marks typ as a dependency of the type currently under construction.
func (ch *chain) record(typ reflect.Type) {
	if last := len(ch.dependencies) - 1; last >= 0 {
		ch.dependencies[last] = append(ch.dependencies[last], typ)
	}
}
