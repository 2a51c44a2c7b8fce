package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDContextKey = "auth_user_id"

// AuthClaims is the token payload the identity provider issues. This
// service only verifies; it never mints tokens.
type AuthClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// NewAuthMiddleware verifies the Bearer token and stores the acting user
// id on the request context.
func NewAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, Response{
					Status:  http.StatusUnauthorized,
					Message: "Missing or malformed authorization header",
				})
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := &AuthClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserID == 0 {
				return c.JSON(http.StatusUnauthorized, Response{
					Status:  http.StatusUnauthorized,
					Message: "Invalid or expired token",
				})
			}

			c.Set(userIDContextKey, claims.UserID)
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id set by the auth
// middleware.
func UserIDFromContext(c echo.Context) (uint, bool) {
	userID, ok := c.Get(userIDContextKey).(uint)
	return userID, ok
}
