package types

// lookup tolerates a nil provider and unknown types
func lookup(p Provider, id TypeID) (*Type, bool) {
	if p == nil {
		return nil, false
	}
	return p.Lookup(id)
}

// BaseOf returns the direct base type of id, or the empty identifier
func BaseOf(p Provider, id TypeID) TypeID {
	if t, ok := lookup(p, id); ok {
		return t.Base
	}
	return ""
}

// DefinitionOf returns the open generic definition of a closed generic type,
// or the empty identifier for every other type.
func DefinitionOf(p Provider, id TypeID) TypeID {
	if t, ok := lookup(p, id); ok {
		if t.IsGenericDefinition() {
			return ""
		}
		return t.GenericDefinition()
	}
	return id.Definition()
}

// BaseChain returns the base types of id, nearest first. The walk stops at
// the first repeated type so malformed metadata cannot loop forever.
func BaseChain(p Provider, id TypeID) []TypeID {
	var chain []TypeID
	seen := map[TypeID]bool{id: true}
	for base := BaseOf(p, id); base != ""; base = BaseOf(p, base) {
		if seen[base] {
			break
		}
		seen[base] = true
		chain = append(chain, base)
	}
	return chain
}

// InterfacesOf returns every interface implemented by id, including the ones
// inherited from base types and extended by other interfaces.
func InterfacesOf(p Provider, id TypeID) []TypeID {
	var result []TypeID
	seen := make(map[TypeID]bool)

	var visit func(TypeID)
	visit = func(t TypeID) {
		rec, ok := lookup(p, t)
		if !ok {
			return
		}
		for _, iface := range rec.Interfaces {
			if seen[iface] {
				continue
			}
			seen[iface] = true
			result = append(result, iface)
			visit(iface)
		}
	}

	visit(id)
	for _, base := range BaseChain(p, id) {
		visit(base)
	}
	return result
}

// IsAssignableTo reports whether a value of type id can be used where target
// is expected: id equals target, derives from it, implements it, or target is
// the open generic definition of id or of one of its base types.
func IsAssignableTo(p Provider, id, target TypeID) bool {
	if id == "" || target == "" {
		return false
	}

	visited := make(map[TypeID]bool)
	var walk func(TypeID) bool
	walk = func(t TypeID) bool {
		if t == "" || visited[t] {
			return false
		}
		visited[t] = true

		if t == target {
			return true
		}
		if def := DefinitionOf(p, t); def != "" && def == target {
			return true
		}

		rec, ok := lookup(p, t)
		if !ok {
			return false
		}
		for _, iface := range rec.Interfaces {
			if walk(iface) {
				return true
			}
		}
		return walk(rec.Base)
	}

	return walk(id)
}

// SameDefinition reports whether a and b are the same type or one is the
// open generic definition of the other.
func SameDefinition(p Provider, a, b TypeID) bool {
	if a == b {
		return true
	}
	if def := DefinitionOf(p, a); def != "" && def == b {
		return true
	}
	if def := DefinitionOf(p, b); def != "" && def == a {
		return true
	}
	return false
}
