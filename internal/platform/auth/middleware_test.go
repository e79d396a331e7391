package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runMiddleware(mw echo.MiddlewareFunc, req *http.Request) (*Actor, *httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor *Actor
	err := mw(func(c echo.Context) error {
		actor = ActorFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	return actor, rec, err
}

func TestMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	signed := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Dr. Quinn",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	actor, _, err := runMiddleware(Middleware(testSecret), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor == nil {
		t.Fatal("expected actor in context")
	}
	if actor.ID == nil || *actor.ID != userID {
		t.Error("expected actor ID from token subject")
	}
	if actor.Name != "Dr. Quinn" {
		t.Errorf("expected name from claims, got %q", actor.Name)
	}
}

func TestMiddleware_NoToken_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	actor, _, err := runMiddleware(Middleware(testSecret), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor != nil {
		t.Error("expected anonymous request to carry no actor")
	}
}

func TestMiddleware_BadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	_, _, err := runMiddleware(Middleware(testSecret), req)
	if err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestMiddleware_WrongScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, _, err := runMiddleware(Middleware(testSecret), req)
	if err == nil {
		t.Fatal("expected error for non-Bearer scheme")
	}
}

func TestDevMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	actor, _, err := runMiddleware(DevMiddleware(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor == nil || actor.Name != "Development User" {
		t.Errorf("expected development actor, got %+v", actor)
	}
}

func TestActorFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActorFromContext(req.Context()) != nil {
		t.Error("expected nil actor for bare context")
	}
}
