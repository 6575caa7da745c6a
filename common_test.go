package appctx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/flightdesk/appctx"
	"github.com/flightdesk/appctx/pkg/env"
)

var (
	errTest = errors.New("test error")
)

// TestServiceInterface is a simple interface for testing
type TestServiceInterface interface {
	DoSomething() string
}

// TestServiceStruct implements TestServiceInterface and all lifecycle interfaces
type TestServiceStruct struct {
	mock.Mock
}

func (t *TestServiceStruct) HealthCheck(ctx context.Context) error {
	args := t.Called(ctx)
	return args.Error(0)
}

func (t *TestServiceStruct) Init(ctx context.Context) error {
	args := t.Called(ctx)
	return args.Error(0)
}

func (t *TestServiceStruct) Shutdown(ctx context.Context) error {
	args := t.Called(ctx)
	return args.Error(0)
}

func (t *TestServiceStruct) DoSomething() string {
	args := t.Called()
	return args.String(0)
}

// DependentStruct is a struct with a dependency on TestServiceInterface
type DependentStruct struct {
	Dependency TestServiceInterface
}

func (d *DependentStruct) DoSomething() string {
	return "dependent: " + d.Dependency.DoSomething()
}

// MockApplication is a mock implementation of the Application interface
type MockApplication struct {
	mock.Mock
}

func (m *MockApplication) Run(ctx context.Context, args []string) error {
	return m.Called(ctx, args).Error(0)
}

// Leaf, Middle and Top form a chain: Top -> Middle -> Leaf
type Leaf struct{}

type Middle struct {
	Leaf *Leaf
}

type Top struct {
	Middle *Middle
}

// Ping and Pong depend on each other
type Ping struct{ Pong *Pong }

type Pong struct{ Ping *Ping }

// lazyLeaf keeps the resolver it was constructed with and resolves *Leaf on demand
type lazyLeaf struct {
	resolver appctx.Resolver
}

func (l *lazyLeaf) Leaf(ctx context.Context) (*Leaf, error) {
	return appctx.Resolve[*Leaf](ctx, l.resolver)
}

// shutdownRecorder appends its name to a shared log on shutdown
type shutdownRecorder struct {
	name string
	log  *[]string
}

func (s *shutdownRecorder) Shutdown(_ context.Context) error {
	*s.log = append(*s.log, s.name)
	return nil
}

func eventuallyAssertExpectations(t *testing.T, instance any) {
	t.Helper()

	m := instance.(interface{ AssertExpectations(t mock.TestingT) bool })
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})
}

func newContext(properties env.Map) *appctx.Context {
	return appctx.New(properties).
		ProcessTimeout(time.Second).
		HealthCheckTimeout(time.Second).
		ShutdownTimeout(time.Second)
}

func newContainer(t *testing.T, properties env.Map, defs ...*appctx.Definition) *appctx.Container {
	t.Helper()

	registry := appctx.NewRegistry()
	if err := registry.Register(defs...); err != nil {
		t.Fatalf("registering definitions: %v", err)
	}

	return appctx.NewContainer(properties, registry)
}

func newLeaf(_ context.Context) (*Leaf, error) {
	return &Leaf{}, nil
}

func newMiddle(_ context.Context, leaf *Leaf) (*Middle, error) {
	return &Middle{Leaf: leaf}, nil
}

func newTop(_ context.Context, middle *Middle) (*Top, error) {
	return &Top{Middle: middle}, nil
}
