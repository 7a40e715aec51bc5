package db

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Fault buckets a remote store failure the way callers report it to users.
type Fault int

const (
	FaultNone Fault = iota
	FaultPermission
	FaultUnavailable
	FaultOther
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultPermission:
		return "permission_denied"
	case FaultUnavailable:
		return "unavailable"
	default:
		return "other"
	}
}

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code := sqlState(err); code != "" {
		if code != "23505" {
			return false
		}
		return constraintName == "" || strings.Contains(err.Error(), constraintName)
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Classify maps driver errors onto the three fault buckets surfaced to users.
func Classify(err error) Fault {
	if err == nil {
		return FaultNone
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FaultUnavailable
	}

	switch code := sqlState(err); {
	case code == "42501":
		return FaultPermission
	case strings.HasPrefix(code, "08"),
		code == "57P01", code == "57P02", code == "57P03",
		code == "53300":
		return FaultUnavailable
	case code != "":
		return FaultOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FaultUnavailable
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return FaultUnavailable
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "sql: database is closed") || strings.Contains(msg, "connection refused") {
		return FaultUnavailable
	}
	return FaultOther
}

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
