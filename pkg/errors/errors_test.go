package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeValidation, "line number must be positive")
	if err.Code() != CodeValidation {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if err.Message() != "line number must be positive" {
		t.Fatalf("unexpected message: %s", err.Message())
	}
	if err.Error() != "VALIDATION_ERROR: line number must be positive" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeDependency, cause, "persist order")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmtWrap(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	outer := fmt.Errorf("load order: %w", inner)
	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeConflict, "id space exhausted"))
	if !IsCode(err, CodeConflict) {
		t.Fatal("expected conflict code")
	}
	if IsCode(err, CodeValidation) {
		t.Fatal("did not expect validation code")
	}
	if IsCode(nil, CodeConflict) {
		t.Fatal("nil error must not match")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"field": "numOt"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatal("expected map details")
	}
	if details["field"] != "numOt" {
		t.Fatalf("unexpected details: %v", details)
	}
}
