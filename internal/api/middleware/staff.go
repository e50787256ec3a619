package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireStaff restricts a route to accounts carrying the staff flag.
// Must run after Auth.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isStaff, _ := c.Get("is_staff").(bool)
			if !isStaff {
				return echo.NewHTTPError(http.StatusForbidden, "staff access required")
			}
			return next(c)
		}
	}
}
