package appctx_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdesk/appctx"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("keeps definitions of a type in registration order", func(t *testing.T) {
		t.Parallel()

		jdbc := appctx.PropertyEquals{Name: "repository", Value: "jdbc"}

		first := appctx.Instance[TestServiceInterface](&TestServiceStruct{}).When(jdbc)
		second := appctx.Instance[TestServiceInterface](&DependentStruct{}).When(appctx.Negate(jdbc))

		registry := appctx.NewRegistry()
		require.NoError(t, registry.Register(first, appctx.Constructor(newLeaf), second))

		typ := reflect.TypeFor[TestServiceInterface]()

		assert.Equal(t, []*appctx.Definition{first, second}, registry.DefinitionsFor(typ))
		assert.Equal(t, []reflect.Type{typ, reflect.TypeFor[*Leaf]()}, registry.Types())
		assert.True(t, registry.Has(typ))
		assert.False(t, registry.Has(reflect.TypeFor[*Top]()))
		assert.Equal(t, 3, registry.Len())
		assert.Len(t, registry.Definitions(), 3)
	})

	t.Run("does not evaluate conditions", func(t *testing.T) {
		t.Parallel()

		condition := appctx.ConditionFunc(func(appctx.Environment) bool {
			t.Fatal("condition evaluated on registration")
			return false
		})

		registry := appctx.NewRegistry()
		require.NoError(t, registry.Register(appctx.Constructor(newLeaf).When(condition)))
	})

	t.Run("rejects nil definitions", func(t *testing.T) {
		t.Parallel()

		err := appctx.NewRegistry().Register(nil)
		assert.ErrorIs(t, err, appctx.ErrDefinitionInvalid)
	})

	t.Run("rejects invalid definitions without registering any of the given ones", func(t *testing.T) {
		t.Parallel()

		registry := appctx.NewRegistry()

		err := registry.Register(appctx.Constructor(newLeaf), appctx.Instance[*Leaf](nil))
		require.ErrorIs(t, err, appctx.ErrDefinitionInvalid)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("returns nothing for unknown types", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, appctx.NewRegistry().DefinitionsFor(reflect.TypeFor[*Leaf]()))
	})
}
