package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var stdAs = stderrors.As

// Append adds err to the aggregate, returning nil while both are nil
func Append(aggregate, err error) error {
	return multierr.Append(aggregate, err)
}

// Errors returns the individual errors of an aggregate
func Errors(err error) []error {
	return multierr.Errors(err)
}

// ConfigErrors returns the ConfigErrors contained in an aggregate, in order.
// Errors that are not ConfigErrors are skipped.
func ConfigErrors(err error) []*ConfigError {
	var result []*ConfigError
	for _, e := range multierr.Errors(err) {
		if cfgErr, ok := As(e); ok {
			result = append(result, cfgErr)
		}
	}
	return result
}

// FormatErrorList returns a formatted report of every error in an aggregate
func FormatErrorList(err error) string {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return "no errors"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Configuration failed with %d error(s)\n\n", len(errs))

	for i, e := range errs {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		if cfgErr, ok := As(e); ok {
			b.WriteString(cfgErr.Format())
		} else {
			b.WriteString(e.Error() + "\n")
		}
	}

	return b.String()
}
