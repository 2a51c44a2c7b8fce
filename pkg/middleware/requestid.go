package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware propagates the caller's request id, or mints a
// short one, and echoes it on the response for log correlation.
func NewRequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.New().String()[:8]
			}
			c.Response().Header().Set(HeaderRequestID, requestID)
			c.Set("request_id", requestID)
			return next(c)
		}
	}
}
