package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestWithDetailsCopies(t *testing.T) {
	with := ErrInsufficientPermission.WithDetails(map[string]any{"permission": "roles.edit"})

	if with == ErrInsufficientPermission {
		t.Fatal("expected WithDetails to return a copy")
	}
	if ErrInsufficientPermission.Details != nil {
		t.Fatal("expected sentinel to remain unchanged")
	}
	if with.Details["permission"] != "roles.edit" {
		t.Fatalf("unexpected details: %v", with.Details)
	}
}

func TestFromError(t *testing.T) {
	appErr := ErrNotFound
	if out := FromError(appErr); out != appErr {
		t.Fatal("expected FromError to return the same AppError instance")
	}

	raw := stdErrors.New("raw")
	out := FromError(raw)
	if out.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NewValidation("bad input"), ErrBadRequest.Code, http.StatusBadRequest},
		{NewConflict("name taken"), ErrConflict.Code, http.StatusConflict},
		{NewNotFound("role missing"), ErrNotFound.Code, http.StatusNotFound},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Fatalf("expected code %s, got %s", tc.code, tc.err.Code)
		}
		if tc.err.StatusCode != tc.status {
			t.Fatalf("expected status %d, got %d", tc.status, tc.err.StatusCode)
		}
	}
}
