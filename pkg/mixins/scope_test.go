package mixins

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/mixins/pkg/errors"
)

func TestScopeStack(t *testing.T) {
	base := baseAndDerived(t)
	outer := EmptyConfiguration()
	inner := EmptyConfiguration()

	t.Run("nested scopes restore on close", func(t *testing.T) {
		stack := NewScopeStack(base)
		assert.Same(t, base, stack.Active())
		assert.Equal(t, 0, stack.Depth())

		s1 := stack.Enter(outer)
		assert.Same(t, outer, stack.Active())
		assert.Equal(t, 1, s1.Depth())

		s2 := stack.Enter(inner)
		assert.Same(t, inner, stack.Active())
		assert.Same(t, inner, s2.Configuration())
		assert.Equal(t, 2, stack.Depth())

		require.NoError(t, s2.Close())
		assert.Same(t, outer, stack.Active())
		require.NoError(t, s1.Close())
		assert.Same(t, base, stack.Active())
	})

	t.Run("double close is a no-op", func(t *testing.T) {
		stack := NewScopeStack(base)
		s1 := stack.Enter(outer)
		s2 := stack.Enter(inner)
		require.NoError(t, s2.Close())
		require.NoError(t, s2.Close())
		assert.Same(t, outer, stack.Active())
		require.NoError(t, s1.Close())
	})

	t.Run("out of order close unwinds inner scopes", func(t *testing.T) {
		stack := NewScopeStack(base)
		s1 := stack.Enter(outer)
		s2 := stack.Enter(inner)

		err := s1.Close()
		require.ErrorIs(t, err, errors.ErrScopeOrder)
		assert.Equal(t, 0, stack.Depth())
		assert.Same(t, base, stack.Active())

		assert.ErrorIs(t, s2.Close(), errors.ErrScopeOrder)
		assert.Same(t, base, stack.Active())
	})

	t.Run("nil base and nil scope configuration", func(t *testing.T) {
		stack := NewScopeStack(nil)
		require.NotNil(t, stack.Active())
		assert.Equal(t, 0, stack.Active().Len())

		scope := stack.Enter(nil)
		_, ok := stack.Active().ResolveContext("Base")
		assert.False(t, ok)
		require.NoError(t, scope.Close())
	})
}

func TestScopeStack_Run(t *testing.T) {
	base := baseAndDerived(t)
	scoped := EmptyConfiguration()

	t.Run("active during fn", func(t *testing.T) {
		stack := NewScopeStack(base)
		err := stack.Run(scoped, func(cfg *MixinConfiguration) error {
			assert.Same(t, scoped, cfg)
			assert.Same(t, scoped, stack.Active())
			return nil
		})
		require.NoError(t, err)
		assert.Same(t, base, stack.Active())
	})

	t.Run("restored after an error", func(t *testing.T) {
		stack := NewScopeStack(base)
		boom := stderrors.New("boom")
		err := stack.Run(scoped, func(*MixinConfiguration) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Same(t, base, stack.Active())
	})

	t.Run("restored after a panic", func(t *testing.T) {
		stack := NewScopeStack(base)
		assert.Panics(t, func() {
			_ = stack.Run(scoped, func(*MixinConfiguration) error { panic("boom") })
		})
		assert.Same(t, base, stack.Active())
		assert.Equal(t, 0, stack.Depth())
	})

	t.Run("scope left open inside fn is reported", func(t *testing.T) {
		stack := NewScopeStack(base)
		err := stack.Run(scoped, func(*MixinConfiguration) error {
			stack.Enter(EmptyConfiguration())
			return nil
		})
		assert.ErrorIs(t, err, errors.ErrScopeOrder)
		assert.Same(t, base, stack.Active())
	})
}

func TestContextConfiguration(t *testing.T) {
	cfg := baseAndDerived(t)
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, 0, ActiveConfiguration(ctx).Len())

	withCfg := WithConfiguration(ctx, cfg)
	got, ok := FromContext(withCfg)
	require.True(t, ok)
	assert.Same(t, cfg, got)

	_, ok = FromContext(WithConfiguration(ctx, nil))
	assert.False(t, ok)

	err := Run(ctx, cfg, func(inner context.Context) error {
		assert.Same(t, cfg, ActiveConfiguration(inner))
		return nil
	})
	require.NoError(t, err)
	_, ok = FromContext(ctx)
	assert.False(t, ok)
}
