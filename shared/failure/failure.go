// Package failure carries the HTTP status and, for business rejections, the machine-readable
// kind of an error up to the transport layer.
package failure

import (
	"errors"
	"net/http"
)

// Kind is the machine-readable reason attached to a business-rule rejection.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindInvalidProvider     Kind = "InvalidProvider"
	KindNoProviders         Kind = "NoProviders"
	KindAllBusy             Kind = "AllBusy"
	KindSlotTaken           Kind = "SlotTaken"
	KindOutsideWorkingHours Kind = "OutsideWorkingHours"
)

// ErrConstraintViolation is returned by repositories when the database rejects a write
// because it would break the no-overlap invariant. Callers treat it as SlotTaken.
var ErrConstraintViolation = errors.New("constraint violation")

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"error_kind,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, kind Kind, msg string) error {
	return &Failure{Code: code, Message: msg, Kind: kind}
}

// BadRequest turns a decode or parse error into an InvalidInput rejection. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return InvalidInput(err.Error())
}

func BadRequestFromString(msg string) error {
	return InvalidInput(msg)
}

// InvalidInput is a malformed or missing field. Never retried; the caller fixes and resubmits.
func InvalidInput(msg string) error {
	return newFailure(http.StatusBadRequest, KindInvalidInput, msg)
}

// InvalidProvider means an explicitly chosen provider does not offer the requested service.
func InvalidProvider(msg string) error {
	return newFailure(http.StatusBadRequest, KindInvalidProvider, msg)
}

// NoProviders means nobody offers the service at all.
func NoProviders(msg string) error {
	return newFailure(http.StatusConflict, KindNoProviders, msg)
}

// AllBusy means every eligible provider is unavailable for the requested slot.
func AllBusy(msg string) error {
	return newFailure(http.StatusConflict, KindAllBusy, msg)
}

// SlotTaken means the chosen provider already has an overlapping active booking.
func SlotTaken(msg string) error {
	return newFailure(http.StatusConflict, KindSlotTaken, msg)
}

func OutsideWorkingHours(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, KindOutsideWorkingHours, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, "", msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, "", msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, "", msg)
}

// GetCode returns the status carried by err, 500 for anything that is not a Failure.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the rejection kind of an error, or an empty Kind for internal errors.
func GetKind(err error) Kind {
	if fail, ok := as(err); ok {
		return fail.Kind
	}

	return ""
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && GetKind(err) == kind
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
