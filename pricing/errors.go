package pricing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

// ErrUnknownProductType is returned when a product's type matches no known
// product family. It is the only failure the engine reports.
var ErrUnknownProductType = errors.New("unknown product type")

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// UnknownProductTypeError carries the offending type string.
type UnknownProductTypeError struct {
	Type string
}

func (e *UnknownProductTypeError) Error() string {
	return fmt.Sprintf("Unknown product type: %s", e.Type)
}

func (e *UnknownProductTypeError) Unwrap() error {
	return ErrUnknownProductType
}

// IsUnknownProductType returns true if err (or anything it wraps) reports an
// unknown product type.
func IsUnknownProductType(err error) bool {
	return errors.Is(err, ErrUnknownProductType)
}
