package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, subject string, key []byte) string {
	t.Helper()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var uid string
	err := mw(func(c echo.Context) error {
		uid = UserIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	return uid, err
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	uid, err := invoke(t, JWTMiddleware(testKey), "Bearer "+signToken(t, "user-1", testKey))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "user-1" {
		t.Errorf("expected user-1, got %q", uid)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	if _, err := invoke(t, JWTMiddleware(testKey), ""); err == nil {
		t.Fatal("expected error for missing authorization header")
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	token := signToken(t, "user-1", []byte("other-key"))
	if _, err := invoke(t, JWTMiddleware(testKey), "Bearer "+token); err == nil {
		t.Fatal("expected error for token signed with wrong key")
	}
}

func TestJWTMiddleware_NoSubject(t *testing.T) {
	token := signToken(t, "", testKey)
	if _, err := invoke(t, JWTMiddleware(testKey), "Bearer "+token); err == nil {
		t.Fatal("expected error for token without subject")
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	uid, err := invoke(t, DevAuthMiddleware(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "dev-user" {
		t.Errorf("expected dev-user, got %q", uid)
	}
}
