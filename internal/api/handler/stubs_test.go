package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

type stubAuthService struct {
	beginFn    func(ctx context.Context) (string, error)
	completeFn func(ctx context.Context, state, code string) (*domain.AccessCredential, *domain.User, error)
	idTokenFn  func(ctx context.Context, idToken string) (*domain.AccessCredential, *domain.User, error)
	logoutFn   func(ctx context.Context, claims *domain.CredentialClaims) error
}

func (s *stubAuthService) BeginOAuth(ctx context.Context) (string, error) {
	return s.beginFn(ctx)
}

func (s *stubAuthService) CompleteOAuth(ctx context.Context, state, code string) (*domain.AccessCredential, *domain.User, error) {
	return s.completeFn(ctx, state, code)
}

func (s *stubAuthService) SignInWithIDToken(ctx context.Context, idToken string) (*domain.AccessCredential, *domain.User, error) {
	return s.idTokenFn(ctx, idToken)
}

func (s *stubAuthService) Logout(ctx context.Context, claims *domain.CredentialClaims) error {
	return s.logoutFn(ctx, claims)
}

type stubTodoService struct {
	listFn   func(ctx context.Context, userID string) ([]*domain.Todo, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.Todo, error)
	createFn func(ctx context.Context, in ports.CreateTodoInput) (*domain.Todo, error)
	updateFn func(ctx context.Context, userID, id string, patch domain.TodoPatch) (*domain.Todo, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (s *stubTodoService) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	return s.listFn(ctx, userID)
}

func (s *stubTodoService) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubTodoService) Create(ctx context.Context, in ports.CreateTodoInput) (*domain.Todo, error) {
	return s.createFn(ctx, in)
}

func (s *stubTodoService) Update(ctx context.Context, userID, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	return s.updateFn(ctx, userID, id, patch)
}

func (s *stubTodoService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

type stubUserService struct {
	registerFn  func(ctx context.Context, userID, token string) (*domain.User, error)
	listFn      func(ctx context.Context) ([]*domain.User, error)
	broadcastFn func(ctx context.Context, n domain.Notification) (*ports.BroadcastResult, error)
	notifyFn    func(ctx context.Context, target ports.UserTarget, n domain.Notification) (*domain.User, error)
}

func (s *stubUserService) RegisterFCMToken(ctx context.Context, userID, token string) (*domain.User, error) {
	return s.registerFn(ctx, userID, token)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Broadcast(ctx context.Context, n domain.Notification) (*ports.BroadcastResult, error) {
	return s.broadcastFn(ctx, n)
}

func (s *stubUserService) NotifyUser(ctx context.Context, target ports.UserTarget, n domain.Notification) (*domain.User, error) {
	return s.notifyFn(ctx, target, n)
}

// newContext builds an echo context with a JSON body and, when user is not
// nil, the values the Auth middleware would inject.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
		c.Set("claims", &domain.CredentialClaims{ID: "jti-" + user.ID, UserID: user.ID})
	}
	return c, rec
}
