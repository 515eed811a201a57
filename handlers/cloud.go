// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/middleware"
	"github.com/danielhkuo/quickly-cloud/models"
	"github.com/danielhkuo/quickly-cloud/wordcloud"
)

type CloudHandler struct {
	db         *sql.DB
	catalog    *catalog.Catalog
	translator *i18n.Translator
}

func NewCloudHandler(db *sql.DB, cat *catalog.Catalog, tr *i18n.Translator) *CloudHandler {
	return &CloudHandler{db: db, catalog: cat, translator: tr}
}

// GetCloud handles GET /api/wordcloud?lang=
// Returns every catalog item with its display size
func (h *CloudHandler) GetCloud(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(h.translator, r.URL.Query().Get("lang"))

	counts, err := LoadCounts(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to load counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var totalVotes int
	if err := h.db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM vote`).Scan(&totalVotes); err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sized := wordcloud.ComputeDisplaySizes(counts, h.catalog.Items(), h.translator.Func(lang))
	words := make([]models.CloudWord, 0, len(sized))
	for _, word := range sized {
		words = append(words, models.CloudWord{
			ItemID: word.ItemID,
			Label:  word.Label,
			Size:   word.Size,
			Count:  word.Count,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.CloudResponse{
		Language:   lang,
		RTL:        wordcloud.IsRTL(lang),
		TotalVotes: totalVotes,
		Words:      words,
	})
}

// GetCatalog handles GET /api/catalog?lang=
func (h *CloudHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(h.translator, r.URL.Query().Get("lang"))

	items := h.catalog.Items()
	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.CatalogEntry{
			ID:    item.ID,
			Label: h.translator.T(lang, item.NameKey),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.CatalogResponse{
		Language: lang,
		Items:    entries,
	})
}
