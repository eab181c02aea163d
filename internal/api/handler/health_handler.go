package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandler serves the service root and the liveness/readiness probes.
type HealthHandler struct {
	version    string
	checks     map[string]Check
	production bool
}

// NewHealthHandler creates probes over the named dependency checks. In
// production the readiness probe omits dependency error details.
func NewHealthHandler(version string, checks map[string]Check, production bool) *HealthHandler {
	return &HealthHandler{version: version, checks: checks, production: production}
}

type indexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET / with a short description of the service.
func (h *HealthHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, indexResponse{
		Message: "Todo API is running...",
		Version: h.version,
		Endpoints: map[string]string{
			"auth":          "/api/auth",
			"todos":         "/api/todos",
			"users":         "/api/users",
			"notifications": "/api/notifications",
			"health":        "/health",
			"docs":          "/swagger/index.html",
		},
	})
}

// Liveness handles GET /health.
// Returns 200 immediately; confirms the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready.
// Runs every dependency check before declaring the service ready.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			st := dependencyStatus{Status: "unhealthy"}
			if !h.production {
				st.Error = err.Error()
			}
			deps[name] = st
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
