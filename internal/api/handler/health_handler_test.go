package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantCode   int
		wantStatus string
	}{
		{name: "all up", checks: map[string]Check{"mongodb": ok, "redis": ok}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "redis down", checks: map[string]Check{"mongodb": ok, "redis": down}, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("1.0.0", tt.checks, false)
			c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, resp.Status)
			}
			if len(resp.Dependencies) != len(tt.checks) {
				t.Fatalf("expected %d dependencies, got %d", len(tt.checks), len(resp.Dependencies))
			}
		})
	}
}

func TestHealthHandler_Readiness_ErrorDetail(t *testing.T) {
	down := func(context.Context) error { return errors.New("dial tcp 10.0.0.7:6379: connection refused") }

	for _, production := range []bool{false, true} {
		h := NewHealthHandler("1.0.0", map[string]Check{"redis": down}, production)
		c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
		if err := h.Readiness(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		var resp readinessResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		redis := resp.Dependencies["redis"]
		if redis.Status != "unhealthy" {
			t.Fatalf("production=%v: expected unhealthy, got %q", production, redis.Status)
		}
		if production && redis.Error != "" {
			t.Fatalf("production must hide dependency errors, got %q", redis.Error)
		}
		if !production && redis.Error == "" {
			t.Fatalf("expected dependency error outside production")
		}
	}
}

func TestHealthHandler_Index(t *testing.T) {
	h := NewHealthHandler("1.0.0", nil, false)
	c, rec := newContext(http.MethodGet, "/", "", nil)
	if err := h.Index(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp indexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Version != "1.0.0" || resp.Endpoints["todos"] != "/api/todos" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
