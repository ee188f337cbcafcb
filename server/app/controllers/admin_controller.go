package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sfmp/server/app/dto"
	"sfmp/server/app/repo"
	"sfmp/server/app/services"
	"sfmp/server/app/storage"
)

// AdminController serves the read-only admin surface: health, transfer
// history and watched-path state. History and Paths may be nil when the
// matching feature is disabled.
type AdminController struct {
	Root    storage.Root
	History *services.HistoryService
	Paths   *repo.WatchedPathRepository
}

func NewAdminController(root storage.Root, history *services.HistoryService, paths *repo.WatchedPathRepository) *AdminController {
	return &AdminController{Root: root, History: history, Paths: paths}
}

// Health reports the served root and its free space.
// GET /healthz
func (c *AdminController) Health(w http.ResponseWriter, r *http.Request) {
	free, err := storage.DiskFree(c.Root.Base())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dto.HealthResponse{Status: "ok", Root: c.Root.Base(), FreeBytes: free})
}

// ListTransfers returns the most recent command outcomes, newest first.
// GET /api/transfers?limit=50
func (c *AdminController) ListTransfers(w http.ResponseWriter, r *http.Request) {
	if c.History == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := c.History.Recent(limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := make([]dto.TransferResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.TransferResponse{
			ID:         rec.ID,
			SessionID:  rec.SessionID,
			Remote:     rec.Remote,
			Verb:       rec.Verb,
			SrcPath:    rec.SrcPath,
			DstPath:    rec.DstPath,
			Status:     rec.Status,
			Message:    rec.Message,
			Bytes:      rec.Bytes,
			DurationMs: rec.DurationMs,
			CreatedAt:  rec.CreatedAt.Unix(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// ListWatched returns the last change seen per path under the served root.
// GET /api/watched
func (c *AdminController) ListWatched(w http.ResponseWriter, r *http.Request) {
	if c.Paths == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rows, err := c.Paths.All()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := make([]dto.WatchedPathResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.WatchedPathResponse{
			Path:        row.Path,
			LastOp:      row.LastOp,
			LastEventAt: row.LastEventAt.Unix(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
