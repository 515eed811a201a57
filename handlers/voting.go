// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-cloud/auth"
	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/cliparse"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/metrics"
	"github.com/danielhkuo/quickly-cloud/middleware"
	"github.com/danielhkuo/quickly-cloud/models"
)

type VotingHandler struct {
	db         *sql.DB
	cfg        cliparse.Config
	catalog    *catalog.Catalog
	translator *i18n.Translator
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, cat *catalog.Catalog, tr *i18n.Translator) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, catalog: cat, translator: tr}
}

// SubmitVote handles POST /api/vote
// Each listed item's counter goes up by exactly one. Resubmitting the same
// body counts again; there is no idempotency key.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		metrics.VotesRejectedTotal.WithLabelValues("invalid_json").Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if reason, msg := validateItems(h.catalog, req.Items); reason != "" {
		metrics.VotesRejectedTotal.WithLabelValues(reason).Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	language := resolveLanguage(h.translator, req.Language)

	// Resolve the device before the transaction; SQLite runs on one connection
	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Error("failed to resolve device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	var devID sql.NullString
	if deviceID != "" {
		devID = sql.NullString{String: deviceID, Valid: true}
	}

	clientIP := middleware.GetClientIP(r)
	ipHash := auth.HashIP(clientIP, h.cfg.AdminKeySalt)
	userAgent := r.UserAgent()

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	voteID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO vote (id, language, device_id, submitted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voteID, language, devID, time.Now().UTC(), ipHash, userAgent)
	if err != nil {
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	for i, itemID := range req.Items {
		_, err = tx.Exec(`
			INSERT INTO vote_item (vote_id, item_id, position)
			VALUES ($1, $2, $3)
		`, voteID, itemID, i)
		if err != nil {
			slog.Error("failed to insert vote item", "error", err, "item_id", itemID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
	}

	if err := incrementCounts(tx, req.Items); err != nil {
		slog.Error("failed to increment counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	metrics.VotesTotal.Inc()
	for _, itemID := range req.Items {
		metrics.ItemSelectionsTotal.WithLabelValues(itemID).Inc()
	}

	slog.Info("vote submitted", "vote_id", voteID, "items", req.Items, "language", language)

	counts, err := LoadCounts(r.Context(), h.db)
	if err != nil {
		// The vote is committed; report it even without the fresh totals
		slog.Error("failed to load counts", "error", err)
		counts = map[string]int{}
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Success: true,
		VoteID:  voteID,
		Votes:   counts,
	})
}

// validateItems returns a metric reason and message for a bad selection,
// or empty strings when it may be counted.
func validateItems(cat *catalog.Catalog, items []string) (reason, msg string) {
	if len(items) == 0 {
		return "empty", "items cannot be empty"
	}
	if len(items) > catalog.MaxSelections {
		return "too_many", fmt.Sprintf("at most %d items may be submitted", catalog.MaxSelections)
	}

	seen := make(map[string]bool, len(items))
	for _, id := range items {
		if !cat.Contains(id) {
			return "unknown_item", "Invalid item_id: " + id
		}
		if seen[id] {
			return "duplicate", "Duplicate item_id: " + id
		}
		seen[id] = true
	}
	return "", ""
}

// resolveLanguage maps an empty or unsupported tag to the default language.
func resolveLanguage(tr *i18n.Translator, lang string) string {
	if lang == "" || !tr.Has(lang) {
		return i18n.DefaultLanguage
	}
	return lang
}
