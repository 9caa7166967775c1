package errors

import (
	"fmt"
)

// Scope error codes (MIX300-399)
const (
	// ErrCodeScopeOrder indicates nested scopes closed out of stack order
	ErrCodeScopeOrder ErrorCode = "MIX300"
)

// NewScopeOrder creates a MIX300 error. depth is the stack depth of the scope
// being closed and active the current depth.
func NewScopeOrder(depth, active int) *ConfigError {
	return newError(
		ErrCodeScopeOrder,
		"scope_order",
		PhaseScope,
		fmt.Sprintf("scope at depth %d closed while depth %d is active", depth, active),
	).WithSuggestion("Close nested scopes in reverse order, typically with defer")
}
