// file: internals/features/attendance/repository/store_errors.go
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
)

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	s := strings.ToLower(err.Error())
	// umumnya driver menuliskan salah satu dari ini
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}

// isTransient: timeout / putus koneksi, aman di-retry.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57014"
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "database is locked") || strings.Contains(s, "connection refused")
}

// StoreError memetakan error store ke kind domain. Error domain dilewatkan apa adanya.
func StoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *errs.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case isDuplicateKey(err):
		return errs.Wrap(errs.KindDuplicateRecord, "attendance already recorded", err)
	case isTransient(err):
		return errs.Wrap(errs.KindUnavailable, "attendance store unavailable, try again", err)
	default:
		return errs.Wrap(errs.KindInternal, msg, err)
	}
}
