package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

// ActorKey carries the authenticated actor through the request context.
const ActorKey contextKey = "actor"

// Actor identifies who performed an action. Both fields may be absent for
// anonymous or system-initiated requests; audit entries then carry nulls.
type Actor struct {
	ID   *uuid.UUID
	Name string
}

// Claims are the token claims this service reads.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// Middleware verifies a Bearer token (HS256) and places the actor in the
// request context. Requests without a token proceed anonymously: the engine
// records status changes either way, attribution is best effort.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must use the Bearer scheme")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actor := &Actor{Name: claims.Name}
			if id, err := uuid.Parse(claims.Subject); err == nil {
				actor.ID = &id
			}

			ctx := context.WithValue(c.Request().Context(), ActorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// DevMiddleware injects a fixed development actor into every request.
func DevMiddleware() echo.MiddlewareFunc {
	devID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := &Actor{ID: &devID, Name: "Development User"}
			ctx := context.WithValue(c.Request().Context(), ActorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ActorFromContext returns the authenticated actor, or nil for anonymous
// requests.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(ActorKey).(*Actor)
	return actor
}
