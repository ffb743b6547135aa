package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("db down")
	appErr := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, 0)

	if appErr.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected default 500, got %d", appErr.HTTPStatus)
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if appErr.Error() != "An internal error occurred: db down" {
		t.Fatalf("unexpected message %q", appErr.Error())
	}

	body := appErr.ToHTTPError()
	if body.Code != "INTERNAL_ERROR" || body.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected body %+v", body)
	}

	simple := NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	if simple.Error() != "Order not found" || simple.Unwrap() != nil {
		t.Fatalf("unexpected simple error %+v", simple)
	}
}
