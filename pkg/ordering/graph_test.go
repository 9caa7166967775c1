package ordering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

type decl struct {
	mixin types.TypeID
	deps  []types.TypeID
}

func contexts(t *testing.T, decls ...decl) []*model.MixinContext {
	t.Helper()
	result := make([]*model.MixinContext, len(decls))
	for i, d := range decls {
		mc, err := model.NewMixinContext(model.MixinSpec{
			Target:       "T",
			MixinType:    d.mixin,
			Dependencies: d.deps,
			Origin:       model.NewOrigin(model.OriginMethodCall, "ordering_test", "graph_test.go:1"),
		})
		require.NoError(t, err)
		result[i] = mc
	}
	return result
}

func typesOf(mixins []*model.MixinContext) []types.TypeID {
	ids := make([]types.TypeID, len(mixins))
	for i, m := range mixins {
		ids[i] = m.MixinType()
	}
	return ids
}

func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		decls []decl
		want  []types.TypeID
	}{
		{
			name: "empty",
			want: []types.TypeID{},
		},
		{
			name:  "no constraints keeps registration order",
			decls: []decl{{mixin: "C"}, {mixin: "A"}, {mixin: "B"}},
			want:  []types.TypeID{"C", "A", "B"},
		},
		{
			name:  "dependency moves mixin after its dependency",
			decls: []decl{{mixin: "Auditing", deps: []types.TypeID{"Logging"}}, {mixin: "Logging"}},
			want:  []types.TypeID{"Logging", "Auditing"},
		},
		{
			name: "chain",
			decls: []decl{
				{mixin: "A", deps: []types.TypeID{"B"}},
				{mixin: "B", deps: []types.TypeID{"C"}},
				{mixin: "C"},
			},
			want: []types.TypeID{"C", "B", "A"},
		},
		{
			name: "unconstrained mixins keep their place around a chain",
			decls: []decl{
				{mixin: "X"},
				{mixin: "A", deps: []types.TypeID{"C"}},
				{mixin: "Y"},
				{mixin: "C"},
				{mixin: "Z"},
			},
			want: []types.TypeID{"X", "Y", "C", "A", "Z"},
		},
		{
			name: "diamond",
			decls: []decl{
				{mixin: "D", deps: []types.TypeID{"B", "C"}},
				{mixin: "C", deps: []types.TypeID{"A"}},
				{mixin: "B", deps: []types.TypeID{"A"}},
				{mixin: "A"},
			},
			want: []types.TypeID{"A", "C", "B", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, err := Sort("T", contexts(t, tt.decls...))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, typesOf(sorted)); diff != "" {
				t.Errorf("build order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort_RespectsEveryDependency(t *testing.T) {
	decls := []decl{
		{mixin: "M5", deps: []types.TypeID{"M1", "M3"}},
		{mixin: "M4"},
		{mixin: "M3", deps: []types.TypeID{"M4"}},
		{mixin: "M2", deps: []types.TypeID{"M5"}},
		{mixin: "M1"},
	}
	mixins := contexts(t, decls...)

	sorted, err := Sort("T", mixins)
	require.NoError(t, err)

	position := make(map[types.TypeID]int)
	for i, m := range sorted {
		position[m.MixinType()] = i
	}
	for _, m := range mixins {
		for _, dep := range m.Dependencies() {
			assert.Greater(t, position[m.MixinType()], position[dep], "%s must follow %s", m.MixinType(), dep)
		}
	}

	again, err := Sort("T", contexts(t, decls...))
	require.NoError(t, err)
	assert.Equal(t, typesOf(sorted), typesOf(again))
}

func TestSort_Cycle(t *testing.T) {
	mixins := contexts(t,
		decl{mixin: "A", deps: []types.TypeID{"B"}},
		decl{mixin: "B", deps: []types.TypeID{"C"}},
		decl{mixin: "C", deps: []types.TypeID{"A"}},
	)

	_, err := Sort("T", mixins)
	require.ErrorIs(t, err, errors.ErrDependencyCycle)

	cfgErr, ok := errors.As(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []types.TypeID{"A", "B", "C"}, cfgErr.Mixins)
	assert.Contains(t, cfgErr.Message, "A -> B -> C -> A")
	assert.Equal(t, types.TypeID("T"), cfgErr.Target)
}

func TestSort_MissingDependency(t *testing.T) {
	mixins := contexts(t, decl{mixin: "Auditing", deps: []types.TypeID{"Loging"}}, decl{mixin: "Logging"})

	_, err := Sort("T", mixins)
	require.ErrorIs(t, err, errors.ErrMissingDependency)

	cfgErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Method call at graph_test.go:1 (ordering_test)", cfgErr.Origin)
	assert.Contains(t, cfgErr.Suggestion, "Logging")
}

func TestGraph(t *testing.T) {
	g, err := NewGraph("T", contexts(t,
		decl{mixin: "A"},
		decl{mixin: "B", deps: []types.TypeID{"A"}},
		decl{mixin: "C", deps: []types.TypeID{"A", "B"}},
	))
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []types.TypeID{"A", "B"}, g.Dependencies("C"))
	assert.Empty(t, g.Dependencies("A"))
	assert.Equal(t, []types.TypeID{"B", "C"}, g.Dependents("A"))
	assert.Empty(t, g.DetectCycles())

	t.Run("reports every cycle", func(t *testing.T) {
		g, err := NewGraph("T", contexts(t,
			decl{mixin: "A", deps: []types.TypeID{"B"}},
			decl{mixin: "B", deps: []types.TypeID{"A"}},
			decl{mixin: "C", deps: []types.TypeID{"D"}},
			decl{mixin: "D", deps: []types.TypeID{"C"}},
		))
		require.NoError(t, err)
		assert.Equal(t, [][]types.TypeID{{"A", "B"}, {"C", "D"}}, g.DetectCycles())
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := NewGraph("T", contexts(t, decl{mixin: "A"}, decl{mixin: "A"}))
		assert.ErrorIs(t, err, errors.ErrInvalidContext)
	})
}
