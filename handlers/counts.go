// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-cloud/auth"
	"github.com/danielhkuo/quickly-cloud/cliparse"
	"github.com/danielhkuo/quickly-cloud/metrics"
	"github.com/danielhkuo/quickly-cloud/middleware"
	"github.com/danielhkuo/quickly-cloud/models"
)

type CountsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCountsHandler(db *sql.DB, cfg cliparse.Config) *CountsHandler {
	return &CountsHandler{db: db, cfg: cfg}
}

// GetCounts handles GET /api/votes
// Returns item_id -> count; items never chosen are absent
func (h *CountsHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := LoadCounts(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to load counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, counts)
}

// ClearCounts handles DELETE /api/votes
// Resets every counter and the vote log. Requires X-Admin-Key.
func (h *CountsHandler) ClearCounts(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.ScopeCounts, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var removed int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM item_count`).Scan(&removed); err != nil {
		slog.Error("failed to count counters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for _, stmt := range []string{
		`DELETE FROM vote_item`,
		`DELETE FROM vote`,
		`DELETE FROM item_count`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			slog.Error("failed to clear counts", "error", err, "stmt", stmt)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear counts")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear counts")
		return
	}

	metrics.CountsClearedTotal.Inc()
	slog.Warn("all counts cleared", "removed", removed, "remote", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusOK, models.ClearCountsResponse{
		Success: true,
		Removed: removed,
	})
}

// LoadCounts reads every frequency counter
func LoadCounts(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT item_id, total FROM item_count`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var itemID string
		var total int
		if err := rows.Scan(&itemID, &total); err != nil {
			return nil, err
		}
		counts[itemID] = total
	}
	return counts, rows.Err()
}

// incrementCounts adds exactly one to each item's counter
func incrementCounts(tx *sql.Tx, items []string) error {
	for _, itemID := range items {
		_, err := tx.Exec(`
			INSERT INTO item_count (item_id, total)
			VALUES ($1, 1)
			ON CONFLICT (item_id) DO UPDATE SET total = item_count.total + 1
		`, itemID)
		if err != nil {
			return err
		}
	}
	return nil
}
