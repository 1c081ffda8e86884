package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

type mockDB struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func checkHealth(t *testing.T, h *Handler) (int, healthResponse) {
	t.Helper()
	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, resp
}

func TestHealth_OK(t *testing.T) {
	code, resp := checkHealth(t, New(&mockDB{}, t.TempDir()))

	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	want := healthResponse{Status: "ok", Database: "ok", Media: "ok"}
	if resp != want {
		t.Errorf("got %+v, want %+v", resp, want)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := New(&mockDB{
		pingFunc: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected ping with a deadline")
			}
			return errors.New("connection refused")
		},
	}, t.TempDir())

	code, resp := checkHealth(t, h)

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if resp.Status != "unhealthy" || resp.Database != "connection refused" {
		t.Errorf("got %+v", resp)
	}
	if resp.Media != "ok" {
		t.Errorf("media = %q, want ok", resp.Media)
	}
}

func TestHealth_MediaDirMissing(t *testing.T) {
	code, resp := checkHealth(t, New(&mockDB{}, filepath.Join(t.TempDir(), "gone")))

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if resp.Status != "unhealthy" || resp.Media == "ok" {
		t.Errorf("got %+v", resp)
	}
	if resp.Database != "ok" {
		t.Errorf("database = %q, want ok", resp.Database)
	}
}
