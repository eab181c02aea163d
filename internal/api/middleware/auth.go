package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

// Auth authorizes the bearer credential through the access guard and injects
// the resolved user and its claims into the context.
func Auth(guard ports.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrUnauthorized
			}

			user, claims, err := guard.Authorize(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userKey, user)
			c.Set(claimsKey, claims)

			return next(c)
		}
	}
}

// UserFrom returns the user injected by Auth.
func UserFrom(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userKey).(*domain.User)
	return u, ok && u != nil
}

// ClaimsFrom returns the credential claims injected by Auth.
func ClaimsFrom(c echo.Context) (*domain.CredentialClaims, bool) {
	cl, ok := c.Get(claimsKey).(*domain.CredentialClaims)
	return cl, ok && cl != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
