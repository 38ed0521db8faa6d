package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/policy"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserInactive, http.StatusForbidden},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrEmailAlreadyRegistered, http.StatusConflict},
		{domain.ErrRoleAlreadyExists, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrRoleNotFound, http.StatusNotFound},
		{domain.ErrEmptyRole, http.StatusUnprocessableEntity},
		{domain.ErrNoRolesAssigned, http.StatusUnprocessableEntity},
		{domain.ErrInvalidEmail, http.StatusBadRequest},
		{domain.ErrIncorrectPassword, http.StatusBadRequest},
	}
	for _, tc := range cases {
		code, _ := renderError(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestErrorHandler_WrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("login: lookup"), domain.ErrInvalidCredentials)
	code, body := renderError(t, wrapped)
	if code != http.StatusUnauthorized {
		t.Fatalf("wrapped domain error not unwrapped: %d", code)
	}
	if body.Error != "invalid credentials" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}

func TestErrorHandler_PolicyViolations(t *testing.T) {
	err := &policy.ViolationError{Violations: []policy.Violation{
		{Code: "REPEAT", Message: "character repeated too often"},
		{Code: "ENTROPY", Message: "password too weak"},
	}}
	code, body := renderError(t, err)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if len(body.Violations) != 2 {
		t.Fatalf("violations lost: %+v", body)
	}
}

func TestErrorHandler_Unexpected(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}

func TestErrorHandler_EchoError(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if body.Error != "route not found" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}
