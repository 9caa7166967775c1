// Package types describes the type metadata consumed by the mixin configuration
// engine: type identifiers, base-type and generic-definition relationships, and
// implemented interfaces. The engine treats this metadata as read-only.
package types

import (
	"strings"
)

// TypeID identifies a target, mixin or interface type.
//
// Closed generic types are spelled "Def[Arg1,Arg2]" and their open generic
// definition is spelled "Def[]".
type TypeID string

// String returns the identifier as a string
func (id TypeID) String() string {
	return string(id)
}

// IsEmpty reports whether the identifier is empty or whitespace
func (id TypeID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// IsOpenGeneric reports whether the identifier names an open generic definition
func (id TypeID) IsOpenGeneric() bool {
	return strings.HasSuffix(string(id), "[]")
}

// IsClosedGeneric reports whether the identifier names a closed generic type
func (id TypeID) IsClosedGeneric() bool {
	s := string(id)
	open := strings.IndexByte(s, '[')
	return open > 0 && strings.HasSuffix(s, "]") && !id.IsOpenGeneric()
}

// Definition returns the open generic definition spelled by a closed generic
// identifier, or the empty identifier for non-generic types.
func (id TypeID) Definition() TypeID {
	if !id.IsClosedGeneric() {
		return ""
	}
	s := string(id)
	return TypeID(s[:strings.IndexByte(s, '[')] + "[]")
}

// Arguments returns the type arguments of a closed generic identifier
func (id TypeID) Arguments() []TypeID {
	if !id.IsClosedGeneric() {
		return nil
	}
	s := string(id)
	inner := s[strings.IndexByte(s, '[')+1 : len(s)-1]

	var args []TypeID
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, TypeID(strings.TrimSpace(inner[start:i])))
				start = i + 1
			}
		}
	}
	return append(args, TypeID(strings.TrimSpace(inner[start:])))
}

// Close builds the closed generic identifier for def with the given arguments.
// def may be spelled with or without the trailing "[]".
func Close(def TypeID, args ...TypeID) TypeID {
	name := strings.TrimSuffix(string(def), "[]")
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = string(arg)
	}
	return TypeID(name + "[" + strings.Join(parts, ",") + "]")
}

// Type is the metadata record of a single type
type Type struct {
	ID TypeID
	// Base is the direct base type, empty for root types
	Base TypeID
	// Definition is the open generic definition of a closed generic type.
	// When empty it is derived from the identifier spelling.
	Definition TypeID
	// Interfaces lists the interfaces implemented directly by the type,
	// or extended by it when the type is itself an interface.
	Interfaces []TypeID
	// Interface marks interface types
	Interface bool
}

// IsGenericDefinition reports whether the record describes an open generic definition
func (t *Type) IsGenericDefinition() bool {
	return t.ID.IsOpenGeneric()
}

// GenericDefinition returns the open generic definition of the type, if any
func (t *Type) GenericDefinition() TypeID {
	if t.Definition != "" {
		return t.Definition
	}
	return t.ID.Definition()
}

// Provider supplies type metadata. Implementations must be side-effect free.
type Provider interface {
	Lookup(id TypeID) (*Type, bool)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(id TypeID) (*Type, bool)

// Lookup calls f(id)
func (f ProviderFunc) Lookup(id TypeID) (*Type, bool) {
	return f(id)
}
