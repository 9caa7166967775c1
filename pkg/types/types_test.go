package types

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHierarchy(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry()
	require.NoError(t, r.DefineAll(
		Type{ID: "IDisposable", Interface: true},
		Type{ID: "IAuditable", Interface: true, Interfaces: []TypeID{"IDisposable"}},
		Type{ID: "Object"},
		Type{ID: "Base", Base: "Object"},
		Type{ID: "Derived", Base: "Base", Interfaces: []TypeID{"IAuditable"}},
		Type{ID: "MoreDerived", Base: "Derived"},
		Type{ID: "List[]", Base: "Object"},
		Type{ID: "List[int]", Base: "Object"},
		Type{ID: "SpecialList", Base: "List[int]"},
	))
	return r
}

func TestTypeID_Generics(t *testing.T) {
	tests := []struct {
		id         TypeID
		open       bool
		closed     bool
		definition TypeID
		args       []TypeID
	}{
		{id: "Widget"},
		{id: "List[]", open: true},
		{id: "List[int]", closed: true, definition: "List[]", args: []TypeID{"int"}},
		{id: "Map[string, List[int]]", closed: true, definition: "Map[]", args: []TypeID{"string", "List[int]"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.open, tt.id.IsOpenGeneric())
			assert.Equal(t, tt.closed, tt.id.IsClosedGeneric())
			assert.Equal(t, tt.definition, tt.id.Definition())
			assert.Equal(t, tt.args, tt.id.Arguments())
		})
	}
}

func TestClose(t *testing.T) {
	assert.Equal(t, TypeID("List[int]"), Close("List[]", "int"))
	assert.Equal(t, TypeID("Map[string,int]"), Close("Map", "string", "int"))
}

func TestTypeID_IsEmpty(t *testing.T) {
	assert.True(t, TypeID("").IsEmpty())
	assert.True(t, TypeID("  ").IsEmpty())
	assert.False(t, TypeID("A").IsEmpty())
}

func TestRegistry(t *testing.T) {
	t.Run("define and lookup", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Define(Type{ID: "A", Interfaces: []TypeID{"I"}}))

		rec, ok := r.Lookup("A")
		require.True(t, ok)
		assert.Equal(t, TypeID("A"), rec.ID)
		assert.True(t, r.Exists("A"))
		assert.Equal(t, 1, r.Count())
	})

	t.Run("duplicate definition", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Define(Type{ID: "A"}))

		err := r.Define(Type{ID: "A"})
		assert.True(t, errors.Is(err, ErrDuplicateType))
	})

	t.Run("empty identifier", func(t *testing.T) {
		r := NewRegistry()
		assert.ErrorIs(t, r.Define(Type{}), ErrEmptyType)
	})

	t.Run("list is sorted and clear empties", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DefineAll(Type{ID: "C"}, Type{ID: "A"}, Type{ID: "B"}))
		assert.Equal(t, []TypeID{"A", "B", "C"}, r.List())

		r.Clear()
		assert.Equal(t, 0, r.Count())
	})

	t.Run("stored record is a copy", func(t *testing.T) {
		r := NewRegistry()
		ifaces := []TypeID{"I"}
		require.NoError(t, r.Define(Type{ID: "A", Interfaces: ifaces}))
		ifaces[0] = "Changed"

		rec, _ := r.Lookup("A")
		assert.Equal(t, []TypeID{"I"}, rec.Interfaces)
	})

	t.Run("concurrent access", func(t *testing.T) {
		r := NewRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = r.Define(Type{ID: Close("T", TypeID(rune('a'+i)))})
				_ = r.List()
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 20, r.Count())
	})
}

func TestBaseChain(t *testing.T) {
	r := newHierarchy(t)

	assert.Equal(t, []TypeID{"Derived", "Base", "Object"}, BaseChain(r, "MoreDerived"))
	assert.Empty(t, BaseChain(r, "Object"))
	assert.Empty(t, BaseChain(r, "Unknown"))
	assert.Empty(t, BaseChain(nil, "Derived"))
}

func TestBaseChain_StopsOnCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.DefineAll(Type{ID: "A", Base: "B"}, Type{ID: "B", Base: "A"}))

	assert.Equal(t, []TypeID{"B"}, BaseChain(r, "A"))
}

func TestDefinitionOf(t *testing.T) {
	r := newHierarchy(t)

	assert.Equal(t, TypeID("List[]"), DefinitionOf(r, "List[int]"))
	assert.Equal(t, TypeID(""), DefinitionOf(r, "List[]"))
	assert.Equal(t, TypeID(""), DefinitionOf(r, "Base"))
	// unknown closed generics fall back to the spelling
	assert.Equal(t, TypeID("Set[]"), DefinitionOf(r, "Set[int]"))
	assert.Equal(t, TypeID("Set[]"), DefinitionOf(nil, "Set[int]"))
}

func TestDefinitionOf_ExplicitRecord(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(Type{ID: "IntList", Definition: "List[]"}))

	assert.Equal(t, TypeID("List[]"), DefinitionOf(r, "IntList"))
}

func TestIsAssignableTo(t *testing.T) {
	r := newHierarchy(t)

	tests := []struct {
		id, target TypeID
		want       bool
	}{
		{"Base", "Base", true},
		{"Derived", "Base", true},
		{"MoreDerived", "Object", true},
		{"Base", "Derived", false},
		{"Derived", "IAuditable", true},
		{"MoreDerived", "IDisposable", true},
		{"Base", "IAuditable", false},
		{"List[int]", "List[]", true},
		{"SpecialList", "List[]", true},
		{"SpecialList", "List[int]", true},
		{"List[]", "List[int]", false},
		{"Unknown", "Base", false},
		{"", "Base", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id)+"->"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, IsAssignableTo(r, tt.id, tt.target))
		})
	}
}

func TestInterfacesOf(t *testing.T) {
	r := newHierarchy(t)

	assert.ElementsMatch(t, []TypeID{"IAuditable", "IDisposable"}, InterfacesOf(r, "MoreDerived"))
	assert.Empty(t, InterfacesOf(r, "Base"))
}

func TestSameDefinition(t *testing.T) {
	r := newHierarchy(t)

	assert.True(t, SameDefinition(r, "A", "A"))
	assert.True(t, SameDefinition(r, "List[int]", "List[]"))
	assert.True(t, SameDefinition(r, "List[]", "List[int]"))
	assert.False(t, SameDefinition(r, "List[int]", "List[string]"))
	assert.False(t, SameDefinition(r, "Base", "Derived"))
}

func TestProviderFunc(t *testing.T) {
	p := ProviderFunc(func(id TypeID) (*Type, bool) {
		if id == "Child" {
			return &Type{ID: id, Base: "Parent"}, true
		}
		return nil, false
	})

	assert.True(t, IsAssignableTo(p, "Child", "Parent"))
}
