package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrReferentialConflict = errors.New("referential conflict")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrExternalService     = errors.New("external service failure")

	// ErrUnknownBarcode is returned when a lot references a barcode missing from the catalog.
	ErrUnknownBarcode = fmt.Errorf("%w: barcode not in catalog", ErrReferentialConflict)
	// ErrBarcodeInUse is returned when deleting a catalog entry that still has lots.
	ErrBarcodeInUse = fmt.Errorf("%w: barcode still referenced by inventory lots", ErrReferentialConflict)
)

// Validationf reports which precondition a request failed.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
