// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestLoad is the sentinel wrapped by LoadError.
	ErrManifestLoad = errors.New("failed to load package.json")
	// ErrManifestValidation is the sentinel wrapped by ValidationError.
	ErrManifestValidation = errors.New("invalid package.json")
	// ErrExportOrdering is the sentinel wrapped by ExportOrderingError.
	ErrExportOrdering = errors.New("export conditions out of order")
)

type (
	// LoadError is returned when the manifest cannot be read or parsed.
	LoadError struct {
		Path string
		Err  error
	}

	// ValidationError is returned when the manifest does not have the
	// expected shape. Field is the JSON path of the offending value.
	ValidationError struct {
		Path    string
		Field   string
		Message string
	}

	// ExportOrderingError is returned when the conditions of an export entry
	// are not in canonical order.
	ExportOrderingError struct {
		Key       string
		Condition Condition
		// Expected describes where Condition belongs, e.g. "first".
		Expected string
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", ErrManifestLoad, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error { return []error{ErrManifestLoad, e.Err} }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrManifestValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrManifestValidation, e.Field, e.Message)
}

// Unwrap returns ErrManifestValidation.
func (e *ValidationError) Unwrap() error { return ErrManifestValidation }

// Error implements the error interface.
func (e *ExportOrderingError) Error() string {
	return fmt.Sprintf("exports[%q]: the %q condition should be %s", e.Key, e.Condition, e.Expected)
}

// Unwrap returns ErrExportOrdering.
func (e *ExportOrderingError) Unwrap() error { return ErrExportOrdering }
