package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// AdminOnly restricts a route group to users whose email is listed. It must
// run after Auth. An empty list denies everyone.
func AdminOnly(emails ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFrom(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if _, ok := allowed[strings.ToLower(user.Email)]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
