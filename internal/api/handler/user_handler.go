package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type fcmTokenRequest struct {
	FCMToken string `json:"fcmToken" validate:"max=4096"`
}

// RegisterFCMToken handles POST /api/users/fcm-token.
//
// @Summary      Register the device push token
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      fcmTokenRequest  true  "FCM token"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/users/fcm-token [post]
func (h *UserHandler) RegisterFCMToken(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req fcmTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.service.RegisterFCMToken(c.Request().Context(), user.ID, req.FCMToken); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "FCM token updated successfully"})
}
