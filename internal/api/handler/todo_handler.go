package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

// TodoHandler handles HTTP requests for the caller's todos.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// --- Request / Response types ---

type createTodoRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type updateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

type todoResponse struct {
	Success bool         `json:"success"`
	Todo    *domain.Todo `json:"todo"`
}

type todoListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Todos   []*domain.Todo `json:"todos"`
}

// List handles GET /api/todos.
//
// @Summary      List todos, newest first
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  todoListResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todos, err := h.service.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}

	return c.JSON(http.StatusOK, todoListResponse{Success: true, Count: len(todos), Todos: todos})
}

// Get handles GET /api/todos/:id.
//
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  todoResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todo, err := h.service.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todoResponse{Success: true, Todo: todo})
}

// Create handles POST /api/todos. The owner is notified in the background;
// delivery problems never change this response.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTodoRequest  true  "Todo"
// @Success      201   {object}  todoResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	todo, err := h.service.Create(c.Request().Context(), ports.CreateTodoInput{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, todoResponse{Success: true, Todo: todo})
}

// Update handles PUT /api/todos/:id. Absent fields are left unchanged.
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Todo ID"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	todo, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todoResponse{Success: true, Todo: todo})
}

// Delete handles DELETE /api/todos/:id.
//
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Todo deleted successfully"})
}
