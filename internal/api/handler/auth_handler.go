package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	clientURL   string
	log         zerolog.Logger
}

// NewAuthHandler creates the sign-in handlers. Browser flows finish with a
// redirect to clientURL.
func NewAuthHandler(authService ports.AuthService, clientURL string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		clientURL:   strings.TrimRight(clientURL, "/"),
		log:         log,
	}
}

type androidLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GoogleRedirect starts the web OAuth flow.
//
// @Summary      Start Google sign-in
// @Tags         auth
// @Success      302
// @Failure      500  {object}  messageResponse
// @Router       /api/auth/google [get]
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	consentURL, err := h.authService.BeginOAuth(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, consentURL)
}

// GoogleCallback completes the web OAuth flow and hands the credential to
// the client app. Every failure ends on the client's failure page.
//
// @Summary      Google OAuth callback
// @Tags         auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "State nonce"
// @Success      302
// @Router       /api/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if reason := c.QueryParam("error"); reason != "" {
		h.log.Info().Str("reason", reason).Msg("google sign-in cancelled")
		return c.Redirect(http.StatusFound, h.clientURL+"/auth/failure")
	}

	cred, _, err := h.authService.CompleteOAuth(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		h.log.Warn().Err(err).Msg("google sign-in failed")
		return c.Redirect(http.StatusFound, h.clientURL+"/auth/failure")
	}

	return c.Redirect(http.StatusFound, h.clientURL+"/auth/success?token="+url.QueryEscape(cred.Token))
}

// Android signs in with an ID token obtained by the mobile app.
//
// @Summary      Android sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      androidLoginRequest  true  "Google ID token"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/auth/google/android [post]
func (h *AuthHandler) Android(c echo.Context) error {
	var req androidLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cred, user, err := h.authService.SignInWithIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Token: cred.Token, User: user})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, User: user})
}

// Logout revokes the presented credential.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}
