package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/api/middleware"
	"github.com/todo-notify/todo-api/internal/core/domain"
)

// currentUser returns the user resolved by the Auth middleware. A missing
// user means the route was mounted without Auth; treat it as unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func currentClaims(c echo.Context) (*domain.CredentialClaims, error) {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return cl, nil
}
