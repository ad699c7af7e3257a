package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration marks a ParameterSet or settings value rejected by validation.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidRate marks an annual rate at or below -100%, which has no monthly equivalent.
	ErrInvalidRate = errors.New("invalid rate")

	// ErrMissingHistoricalData is returned when historical or bootstrap mode runs without a usable table.
	ErrMissingHistoricalData = errors.New("missing historical returns data")
)

// invalidField formats a validation failure as "invalid configuration: <field>: <reason>".
func invalidField(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfiguration, field, fmt.Sprintf(format, args...))
}
