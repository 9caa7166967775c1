package model

import (
	"fmt"
	"strings"
)

// MixinKind describes how a mixin relates to its target
type MixinKind int

const (
	// MixinKindExtending mixins extend the target and may override its members
	MixinKindExtending MixinKind = iota
	// MixinKindUsed mixins are used by the target, which may override mixin members
	MixinKindUsed
)

// String returns the string representation of the kind
func (k MixinKind) String() string {
	switch k {
	case MixinKindExtending:
		return "extending"
	case MixinKindUsed:
		return "used"
	default:
		return fmt.Sprintf("MixinKind(%d)", int(k))
	}
}

// ParseMixinKind parses "extending" or "used"
func ParseMixinKind(s string) (MixinKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extending":
		return MixinKindExtending, nil
	case "used":
		return MixinKindUsed, nil
	default:
		return 0, fmt.Errorf("unknown mixin kind: %q", s)
	}
}

// MemberVisibility is the visibility of members a mixin introduces
type MemberVisibility int

const (
	// VisibilityPrivate introduces members as explicit, non-public implementations
	VisibilityPrivate MemberVisibility = iota
	// VisibilityPublic introduces members as public members of the composed type
	VisibilityPublic
)

// String returns the string representation of the visibility
func (v MemberVisibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPublic:
		return "public"
	default:
		return fmt.Sprintf("MemberVisibility(%d)", int(v))
	}
}
