package apperr

import "errors"

// Sentinel errors for business-rule failures. Services return these
// (possibly wrapped with %w) and the HTTP layer maps them to status codes
// with errors.Is.
var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrRequestNotFound    = errors.New("asset request not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrManagerNotFound    = errors.New("manager not found")
	ErrPackageNotFound    = errors.New("package not found")

	ErrInsufficientStock = errors.New("asset out of stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotReturnable     = errors.New("asset is not returnable")

	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrPaymentIncomplete = errors.New("payment not completed")

	ErrDuplicate    = errors.New("record already exists")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
)

// IsNotFound reports whether err is any of the entity-missing sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrManagerNotFound) ||
		errors.Is(err, ErrPackageNotFound)
}
