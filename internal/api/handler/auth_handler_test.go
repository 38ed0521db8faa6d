package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/ports"
)

// stubAuthService is a canned-response ports.AuthService.
type stubAuthService struct {
	registerResult ports.UserResult
	registerErr    error
	loginResult    ports.AuthTokens
	loginErr       error
	refreshResult  ports.AuthTokens
	refreshErr     error
	logoutErr      error
	loggedOutToken string
}

func (s *stubAuthService) Register(_ context.Context, email, password string) (ports.UserResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (ports.AuthTokens, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (ports.AuthTokens, error) {
	return s.refreshResult, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, accessToken string) error {
	s.loggedOutToken = accessToken
	return s.logoutErr
}

func newHandlerTest(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{registerResult: ports.UserResult{ID: "user-1", Email: "alice@example.com"}}
	h := NewAuthHandler(svc)

	c, rec := newHandlerTest(http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"Str0ng@Pwd1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var res registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.ID != "user-1" || res.Email != "alice@example.com" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newHandlerTest(http.MethodPost, "/auth/register", `{"email":"alice@example.com"}`)
	err := h.Register(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %v", err)
	}
}

func TestAuthHandler_Register_ServiceError(t *testing.T) {
	svc := &stubAuthService{registerErr: domain.ErrEmailAlreadyRegistered}
	h := NewAuthHandler(svc)

	c, _ := newHandlerTest(http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"Str0ng@Pwd1"}`)
	err := h.Register(c)
	// The central error handler maps domain errors; the handler passes them
	// through untouched.
	if err != domain.ErrEmailAlreadyRegistered {
		t.Fatalf("expected the domain error verbatim, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	expires := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)
	svc := &stubAuthService{loginResult: ports.AuthTokens{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    expires,
	}}
	h := NewAuthHandler(svc)

	c, rec := newHandlerTest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"Str0ng@Pwd1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.AccessToken != "at-1" || res.RefreshToken != "rt-1" || res.TokenType != "Bearer" {
		t.Fatalf("unexpected response: %+v", res)
	}
	if !res.ExpiresAt.Equal(expires) {
		t.Fatalf("expiry mangled: %v", res.ExpiresAt)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc)

	c, _ := newHandlerTest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"Wr0ng@Pwd99"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected the domain error verbatim, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := &stubAuthService{refreshResult: ports.AuthTokens{AccessToken: "at-2", RefreshToken: "rt-2"}}
	h := NewAuthHandler(svc)

	c, rec := newHandlerTest(http.MethodPost, "/auth/refresh", `{"refresh_token":"rt-1"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.RefreshToken != "rt-2" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newHandlerTest(http.MethodPost, "/auth/refresh", `{}`)
	err := h.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newHandlerTest(http.MethodPost, "/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer at-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.loggedOutToken != "at-1" {
		t.Fatalf("token not forwarded: %q", svc.loggedOutToken)
	}
}

func TestAuthHandler_Logout_NoHeader(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newHandlerTest(http.MethodPost, "/auth/logout", "")
	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
