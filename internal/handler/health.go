package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const healthTimeout = 2 * time.Second

// healthResponse reports each dependency the site cannot serve pages without.
// A check value is "ok" or the failure message.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Media    string `json:"media"`
}

// Health handles GET /healthz. It pings the database and checks that the
// upload directory exists, answering 503 when either fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Media: "ok"}
	if err := h.db.Ping(ctx); err != nil {
		resp.Status, resp.Database = "unhealthy", err.Error()
	}
	if err := checkDir(h.mediaDir); err != nil {
		resp.Status, resp.Media = "unhealthy", err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		slog.Warn("health check failed", "database", resp.Database, "media", resp.Media)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func checkDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
