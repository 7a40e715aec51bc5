package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "Service temporarily unavailable. Please try again later.", retryable: true, detailsOK: true},
		{code: CodePermission, status: http.StatusForbidden, publicMsg: "Permission denied. Please check your authentication status."},
		{code: CodePersistence, status: http.StatusInsufficientStorage, publicMsg: "catalog could not be saved", detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpWalksChain(t *testing.T) {
	inner := stdErrors.New("disk full")
	err := Wrap(CodePersistence, inner, "write catalog")

	d := Dump(err)
	if d.Code != CodePersistence {
		t.Fatalf("expected persistence code, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", d.Chain)
	}
	if d.Postgres != nil {
		t.Fatalf("unexpected postgres detail %+v", d.Postgres)
	}
	if _, ok := d.Fields()["pg_code"]; ok {
		t.Fatal("pg fields should be absent without a driver error")
	}
}

func TestDumpReadsPostgresErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "wishlist_entries_uid_item_key", TableName: "wishlist_entries"}
	d := Dump(Wrap(CodeConflict, fmt.Errorf("insert: %w", pgErr), "already saved"))
	if d.Postgres == nil || d.Postgres.Code != "23505" {
		t.Fatalf("expected pgx detail, got %+v", d.Postgres)
	}
	if got := d.Fields()["pg_constraint"]; got != "wishlist_entries_uid_item_key" {
		t.Fatalf("unexpected constraint field %v", got)
	}

	d = Dump(fmt.Errorf("grant: %w", &pq.Error{Code: "42501", Table: "profiles"}))
	if d.Postgres == nil || d.Postgres.Code != "42501" || d.Postgres.Table != "profiles" {
		t.Fatalf("expected pq detail, got %+v", d.Postgres)
	}
}

func TestExposeMarksMessagePublic(t *testing.T) {
	err := New(CodeInternal, "Failed to update wishlist. Please try again.")
	if err.Exposed() {
		t.Fatal("new errors must not be exposed")
	}
	if !err.Expose().Exposed() {
		t.Fatal("expected exposed error")
	}
	var nilErr *Error
	if nilErr.Expose() != nil || nilErr.Exposed() {
		t.Fatal("nil error must stay nil")
	}
}

func TestCodeHelpers(t *testing.T) {
	inner := Newf(CodeNotFound, "item %s missing", "m1")
	outer := fmt.Errorf("wishlist add: %w", Wrap(CodeDependency, inner, "profile store"))

	if got := CodeOf(outer); got != CodeDependency {
		t.Fatalf("expected outermost code, got %s", got)
	}
	if !IsCode(outer, CodeNotFound) {
		t.Fatal("expected inner code to be found")
	}
	if IsCode(outer, CodeConflict) {
		t.Fatal("unexpected conflict code")
	}
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("untyped errors should map to internal, got %s", got)
	}
	if got := inner.Error(); got != "NOT_FOUND: item m1 missing" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Wrap(CodeInternal, stdErrors.New("eof"), "read").Error(); got != "INTERNAL_ERROR: read: eof" {
		t.Fatalf("unexpected wrapped message %q", got)
	}
}
