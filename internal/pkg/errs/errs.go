package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Every error struct below unwraps to one of them.
var (
	ErrObjectNotFound            = errors.New("object not found")
	ErrValueIsInvalid            = errors.New("value is invalid")
	ErrValueIsOutOfRange         = errors.New("value is out of range")
	ErrValueIsRequired           = errors.New("value is required")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrStatusTransitionIsInvalid = errors.New("status transition is invalid")
	ErrConflict                  = errors.New("conflict")
)

// IsValidation reports whether err belongs to the validation family:
// bad input, limits, stock shortfalls and illegal state transitions.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsOutOfRange) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrStatusTransitionIsInvalid)
}

// withCause appends the cause to msg when there is one.
func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// sanitize renders v on a single line.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError is returned when an aggregate or collaborator record does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError reports that no paramName with the given id exists.
//
// Example:
//
//	return nil, errs.NewObjectNotFoundError("order", id.String())
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause is NewObjectNotFoundError with the
// underlying error attached.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

// Error returns e.g. "object not found: order 0192...".
func (e *ObjectNotFoundError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID)), e.Cause)
}

// Unwrap returns ErrObjectNotFound.
func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value is present but unusable, such
// as a malformed email or an unknown section.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError reports that paramName is invalid.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause reports that paramName is invalid and why.
//
// Example:
//
//	return errs.NewValueIsInvalidErrorWithCause("email", err)
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

// Error returns e.g. "value is invalid: email (cause: ...)".
func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

// Unwrap returns ErrValueIsInvalid.
func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a number falls outside [Min, Max].
// An open bound is given as the string "unbounded".
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError reports value as outside [minValue, maxValue].
//
// Example:
//
//	return errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxLimit)
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause is NewValueIsOutOfRangeError with the
// underlying error attached.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

// Error names the value and both bounds.
func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsOutOfRange, e.ParamName, sanitize(e.Value), sanitize(e.Min), sanitize(e.Max)), e.Cause)
}

// Unwrap returns ErrValueIsOutOfRange.
func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing or blank.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError reports that paramName is missing.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause reports that paramName is missing and why.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

// Error returns e.g. "value is required: items".
func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

// Unwrap returns ErrValueIsRequired.
func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InsufficientStockError names the product and the shortfall of a rejected reservation.
// Available is -1 when the stock changed again before it could be read back.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

// NewInsufficientStockError reports that requested units of productID could
// not be reserved because only available were left.
//
// Example:
//
//	return errs.NewInsufficientStockError(p.ID().String(), 5, p.StockQuantity())
func NewInsufficientStockError(productID string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

// Shortfall returns how many units are missing, or 0 when unknown.
func (e *InsufficientStockError) Shortfall() int {
	if e.Available < 0 || e.Requested <= e.Available {
		return 0
	}
	return e.Requested - e.Available
}

// Error names the product, the request and, when known, the shortfall.
func (e *InsufficientStockError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("%s: product %s, requested %d", ErrInsufficientStock, e.ProductID, e.Requested)
	}
	return fmt.Sprintf("%s: product %s, requested %d, available %d, short by %d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available, e.Shortfall())
}

// Unwrap returns ErrInsufficientStock.
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// StatusTransitionIsInvalidError carries the persisted status alongside the rejected target.
type StatusTransitionIsInvalidError struct {
	Machine string
	From    string
	To      string
}

// NewStatusTransitionIsInvalidError reports that machine ("payment" or
// "fulfillment") cannot move from one status to another.
//
// Example:
//
//	return errs.NewStatusTransitionIsInvalidError("payment", "REFUNDED", "PAID")
func NewStatusTransitionIsInvalidError(machine, from, to string) *StatusTransitionIsInvalidError {
	return &StatusTransitionIsInvalidError{Machine: machine, From: from, To: to}
}

// Error names the machine and both statuses.
func (e *StatusTransitionIsInvalidError) Error() string {
	return fmt.Sprintf("%s: %s status cannot change from %s to %s", ErrStatusTransitionIsInvalid, e.Machine, e.From, e.To)
}

// Unwrap returns ErrStatusTransitionIsInvalid.
func (e *StatusTransitionIsInvalidError) Unwrap() error {
	return ErrStatusTransitionIsInvalid
}

// ConflictError is returned when a write collides with existing data, such as
// a duplicate SKU or email.
type ConflictError struct {
	ParamName string
	Cause     error
}

// NewConflictError reports a collision on paramName.
func NewConflictError(paramName string) *ConflictError {
	return &ConflictError{ParamName: paramName}
}

// NewConflictErrorWithCause reports a collision on paramName with the driver
// error attached.
func NewConflictErrorWithCause(paramName string, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, Cause: cause}
}

// Error returns e.g. "conflict: product".
func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrConflict, e.ParamName), e.Cause)
}

// Unwrap returns ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
