// file: internals/features/attendance/errs/errs.go
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindMissingLocation   Kind = "MISSING_LOCATION"
	KindGeofenceViolation Kind = "GEOFENCE_VIOLATION"
	KindAlreadyCheckedIn  Kind = "ALREADY_CHECKED_IN"
	KindAlreadyCompleted  Kind = "ALREADY_COMPLETED"
	KindNoOpenCheckIn     Kind = "NO_OPEN_CHECK_IN"
	KindDuplicateRecord   Kind = "DUPLICATE_RECORD"
	KindRecordNotFound    Kind = "RECORD_NOT_FOUND"
	KindBatchNotFound     Kind = "BATCH_NOT_FOUND"
	KindProfileNotLinked  Kind = "PROFILE_NOT_LINKED"
	KindUnavailable       Kind = "UNAVAILABLE"
	KindInternal          Kind = "INTERNAL"
)

// Status: HTTP status per kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput, KindMissingLocation:
		return http.StatusBadRequest
	case KindGeofenceViolation:
		return http.StatusForbidden
	case KindAlreadyCheckedIn, KindAlreadyCompleted, KindDuplicateRecord:
		return http.StatusConflict
	case KindNoOpenCheckIn, KindRecordNotFound, KindBatchNotFound, KindProfileNotLinked:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable hanya untuk gangguan store sementara.
func (k Kind) Retryable() bool { return k == KindUnavailable }

// Error adalah error terstruktur: kind + pesan + konteks (jarak, id record, dst).
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// With menambah satu detail (chainable).
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf: kind dari error (INTERNAL kalau bukan *Error).
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
