package appctx

import (
	"context"
)

// Constructor registers a component built by fn without dependencies.
func Constructor[T any](fn func(ctx context.Context) (T, error)) *Definition {
	return newDefinition[T](KindConstructor, func(ctx context.Context, _ Environment, _ Resolver) (any, error) {
		return fn(ctx)
	})
}

// Constructor1 registers a component built by fn, P1 is resolved before fn is called.
func Constructor1[T any, P1 any](fn func(ctx context.Context, p1 P1) (T, error)) *Definition {
	return newDefinition[T](KindConstructor, func(ctx context.Context, _ Environment, r Resolver) (any, error) {
		p1, err := Resolve[P1](ctx, r)
		if err != nil {
			return nil, err
		}

		return fn(ctx, p1)
	}, elem[P1]())
}

// Constructor2 registers a component built by fn, P1 and P2 are resolved in order before fn is called.
func Constructor2[T any, P1 any, P2 any](fn func(ctx context.Context, p1 P1, p2 P2) (T, error)) *Definition {
	return newDefinition[T](KindConstructor, func(ctx context.Context, _ Environment, r Resolver) (any, error) {
		p1, err := Resolve[P1](ctx, r)
		if err != nil {
			return nil, err
		}

		p2, err := Resolve[P2](ctx, r)
		if err != nil {
			return nil, err
		}

		return fn(ctx, p1, p2)
	}, elem[P1](), elem[P2]())
}

// Constructor3 registers a component built by fn, P1..P3 are resolved in order before fn is called.
func Constructor3[T any, P1 any, P2 any, P3 any](fn func(ctx context.Context, p1 P1, p2 P2, p3 P3) (T, error)) *Definition {
	return newDefinition[T](KindConstructor, func(ctx context.Context, _ Environment, r Resolver) (any, error) {
		p1, err := Resolve[P1](ctx, r)
		if err != nil {
			return nil, err
		}

		p2, err := Resolve[P2](ctx, r)
		if err != nil {
			return nil, err
		}

		p3, err := Resolve[P3](ctx, r)
		if err != nil {
			return nil, err
		}

		return fn(ctx, p1, p2, p3)
	}, elem[P1](), elem[P2](), elem[P3]())
}

// Constructor4 registers a component built by fn, P1..P4 are resolved in order before fn is called.
func Constructor4[T any, P1 any, P2 any, P3 any, P4 any](fn func(ctx context.Context, p1 P1, p2 P2, p3 P3, p4 P4) (T, error)) *Definition {
	return newDefinition[T](KindConstructor, func(ctx context.Context, _ Environment, r Resolver) (any, error) {
		p1, err := Resolve[P1](ctx, r)
		if err != nil {
			return nil, err
		}

		p2, err := Resolve[P2](ctx, r)
		if err != nil {
			return nil, err
		}

		p3, err := Resolve[P3](ctx, r)
		if err != nil {
			return nil, err
		}

		p4, err := Resolve[P4](ctx, r)
		if err != nil {
			return nil, err
		}

		return fn(ctx, p1, p2, p3, p4)
	}, elem[P1](), elem[P2](), elem[P3](), elem[P4]())
}
