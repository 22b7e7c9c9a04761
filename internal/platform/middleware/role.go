package middleware

import "github.com/labstack/echo/v4"

const RoleHeader = "X-Role"

// ResolveRole copies the caller's pre-resolved role into the request context.
// There is no authentication here; whatever fronts this service is expected
// to have established identity already. An absent header resolves to patient,
// the least privileged role.
func ResolveRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Request().Header.Get(RoleHeader)
			if role == "" {
				role = "patient"
			}
			c.Set("role", role)
			return next(c)
		}
	}
}

// Role returns the role resolved for the request.
func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
