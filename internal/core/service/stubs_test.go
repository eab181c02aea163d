package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	seq    int
	err    error // if set, every call returns it
	writes int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[c.ID] = c
	r.writes++
	return cloneUser(c), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	existing, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	existing.GoogleID = user.GoogleID
	existing.Email = user.Email
	existing.Name = user.Name
	existing.Avatar = user.Avatar
	existing.UpdatedAt = user.UpdatedAt
	r.writes++
	return cloneUser(existing), nil
}

func (r *stubUserRepo) SetFCMToken(_ context.Context, id, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.FCMToken = token
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) ListWithFCMToken(ctx context.Context) ([]*domain.User, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, u := range all {
		if u.FCMToken != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ---------------------------------------------------------------------------
// In-memory todo repository
// ---------------------------------------------------------------------------

type stubTodoRepo struct {
	todos     map[string]*domain.Todo
	seq       int
	createErr error
}

func newStubTodoRepo(todos ...*domain.Todo) *stubTodoRepo {
	r := &stubTodoRepo{todos: make(map[string]*domain.Todo)}
	for _, t := range todos {
		c := *t
		r.todos[t.ID] = &c
	}
	return r
}

func (r *stubTodoRepo) Create(_ context.Context, t *domain.Todo) (*domain.Todo, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	c := *t
	c.ID = fmt.Sprintf("todo-%d", r.seq)
	r.todos[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubTodoRepo) FindByID(_ context.Context, id string) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	c := *t
	return &c, nil
}

func (r *stubTodoRepo) FindByOwner(_ context.Context, userID string) ([]*domain.Todo, error) {
	var out []*domain.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubTodoRepo) Update(_ context.Context, id string, p domain.TodoPatch) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	c := *t
	return &c, nil
}

func (r *stubTodoRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.todos[id]; !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

// ---------------------------------------------------------------------------
// Push sender
// ---------------------------------------------------------------------------

type stubSender struct {
	mu       sync.Mutex
	failFor  map[string]error // token → error to return
	panicFor map[string]bool
	delay    time.Duration
	sent     []*domain.PushMessage

	inFlight    int
	maxInFlight int
}

func (s *stubSender) Send(ctx context.Context, msg *domain.PushMessage) (string, error) {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.panicFor[msg.Token] {
		panic("boom")
	}
	if err := s.failFor[msg.Token]; err != nil {
		return "", err
	}
	return "projects/test/messages/" + msg.Token, nil
}

func (s *stubSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

var errProvider = errors.New("messaging/registration-token-not-registered")

// ---------------------------------------------------------------------------
// Task submitters
// ---------------------------------------------------------------------------

// syncSubmitter runs tasks inline and records their errors, standing in for
// the worker pool.
type syncSubmitter struct {
	names []string
	errs  []error
}

func (s *syncSubmitter) Submit(_, name string, task ports.Task) bool {
	s.names = append(s.names, name)
	s.errs = append(s.errs, task(context.Background()))
	return true
}

type fullSubmitter struct{ attempts int }

func (s *fullSubmitter) Submit(string, string, ports.Task) bool {
	s.attempts++
	return false
}
