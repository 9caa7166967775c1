package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *ConfigError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s]: %s\n", phaseDisplayName(e.Phase), e.Code, e.Message)
	writeDetails(&b, e, fmt.Sprint)

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *ConfigError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Origin != "" {
		fmt.Fprintf(&b, " (registered at %s)", e.Origin)
	}
	return b.String()
}

// FormatForTerminal formats the error with ANSI colors. Colors are omitted
// when noColor is set or the output is not a terminal.
func FormatForTerminal(e *ConfigError, noColor bool) string {
	var b strings.Builder

	header := color.New(color.FgRed, color.Bold)
	detail := color.New(color.FgCyan)
	if noColor {
		header.DisableColor()
		detail.DisableColor()
	}

	header.Fprintf(&b, "❌ %s [%s]: ", strings.ToUpper(phaseDisplayName(e.Phase)), e.Code)
	fmt.Fprintf(&b, "%s\n", e.Message)
	writeDetails(&b, e, detail.Sprint)

	return b.String()
}

func writeDetails(b *strings.Builder, e *ConfigError, label func(...interface{}) string) {
	if e.Target != "" {
		fmt.Fprintf(b, "  %s %s\n", label("target:"), e.Target)
	}
	if len(e.Mixins) > 0 {
		fmt.Fprintf(b, "  %s %s\n", label("mixins:"), joinTypes(e.Mixins, ", "))
	}
	if e.Origin != "" {
		fmt.Fprintf(b, "  %s %s\n", label("origin:"), e.Origin)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(b, "\n💡 %s\n", e.Suggestion)
	}
	if len(e.Examples) > 0 {
		b.WriteString("\nQuick Fixes:\n")
		for i, example := range e.Examples {
			fmt.Fprintf(b, "  %d. %s\n", i+1, example)
		}
	}
	if e.Documentation != "" {
		fmt.Fprintf(b, "\nLearn more: %s\n", e.Documentation)
	}
}

// phaseDisplayName returns a human-readable phase name
func phaseDisplayName(phase Phase) string {
	switch phase {
	case PhaseRegistration:
		return "Registration Error"
	case PhaseBuild:
		return "Build Error"
	case PhaseScope:
		return "Scope Error"
	default:
		return "Configuration Error"
	}
}
