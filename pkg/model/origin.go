package model

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// Origin kinds
const (
	// OriginMethodCall marks registrations made through the builder API
	OriginMethodCall = "Method call"
	// OriginInherited marks mixins copied from an ancestor context
	OriginInherited = "Inherited"
	// OriginUnknown marks registrations without provenance
	OriginUnknown = "Unknown"
)

// Origin records where a mixin registration was made. It exists for
// diagnostics only and never takes part in equality, ordering or suppression.
type Origin struct {
	// ID identifies the registration for tooling correlation
	ID uuid.UUID `json:"id"`
	// Kind describes how the registration was made (e.g., "Method call")
	Kind string `json:"kind"`
	// Source is the function or package that made the registration
	Source string `json:"source,omitempty"`
	// Location is the file:line of the registration
	Location string `json:"location,omitempty"`
}

// NewOrigin creates an origin with a fresh registration ID
func NewOrigin(kind, source, location string) Origin {
	return Origin{
		ID:       uuid.New(),
		Kind:     kind,
		Source:   source,
		Location: location,
	}
}

// UnknownOrigin returns an origin without provenance information
func UnknownOrigin() Origin {
	return NewOrigin(OriginUnknown, "", "")
}

// CaptureOrigin records the call site skip frames above its caller.
// CaptureOrigin(0) describes the function calling CaptureOrigin.
func CaptureOrigin(skip int) Origin {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return UnknownOrigin()
	}

	source := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		source = fn.Name()
	}
	return NewOrigin(OriginMethodCall, source, fmt.Sprintf("%s:%d", filepath.Base(file), line))
}

// IsZero reports whether the origin was never set
func (o Origin) IsZero() bool {
	return o == Origin{}
}

// String renders the origin for error messages
func (o Origin) String() string {
	if o.IsZero() {
		return ""
	}
	s := o.Kind
	if o.Location != "" {
		s += " at " + o.Location
	}
	if o.Source != "" {
		s += " (" + o.Source + ")"
	}
	return s
}
