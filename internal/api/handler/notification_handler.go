package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

// NotificationHandler serves the admin push endpoints.
type NotificationHandler struct {
	service ports.UserService
}

func NewNotificationHandler(service ports.UserService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type sendAllRequest struct {
	Title string `json:"title" validate:"max=200"`
	Body  string `json:"body" validate:"max=2000"`
}

type sendUserRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email" validate:"omitempty,email"`
	Title  string `json:"title" validate:"max=200"`
	Body   string `json:"body" validate:"max=2000"`
}

type broadcastResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	TotalUsers   int    `json:"totalUsers"`
	SuccessCount int    `json:"successCount"`
	FailureCount int    `json:"failureCount"`
}

type userSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	HasToken *bool  `json:"hasToken,omitempty"`
}

type sendUserResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type userListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Users   []userSummary `json:"users"`
}

// SendAll handles POST /api/notifications/send-all.
//
// @Summary      Broadcast to every registered device
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendAllRequest  true  "Message"
// @Success      200   {object}  broadcastResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /api/notifications/send-all [post]
func (h *NotificationHandler) SendAll(c echo.Context) error {
	var req sendAllRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Broadcast(c.Request().Context(), domain.Notification{Title: req.Title, Body: req.Body})
	if err != nil {
		return err
	}

	resp := broadcastResponse{
		Success:    true,
		Message:    fmt.Sprintf("Notification sent to %d users", res.TotalUsers),
		TotalUsers: res.TotalUsers,
	}
	if res.Delivery != nil {
		resp.SuccessCount = res.Delivery.SuccessCount
		resp.FailureCount = res.Delivery.FailureCount
	}
	return c.JSON(http.StatusOK, resp)
}

// SendUser handles POST /api/notifications/send-user.
//
// @Summary      Send to one user by id or email
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendUserRequest  true  "Target and message"
// @Success      200   {object}  sendUserResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/notifications/send-user [post]
func (h *NotificationHandler) SendUser(c echo.Context) error {
	var req sendUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.NotifyUser(c.Request().Context(),
		ports.UserTarget{ID: req.UserID, Email: req.Email},
		domain.Notification{Title: req.Title, Body: req.Body},
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sendUserResponse{
		Success: true,
		Message: "Notification sent successfully",
		User:    userSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Users handles GET /api/notifications/users.
//
// @Summary      List users for targeting, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  messageResponse
// @Router       /api/notifications/users [get]
func (h *NotificationHandler) Users(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		hasToken := u.HasPushAddress()
		out = append(out, userSummary{ID: u.ID, Name: u.Name, Email: u.Email, HasToken: &hasToken})
	}

	return c.JSON(http.StatusOK, userListResponse{Success: true, Count: len(out), Users: out})
}
