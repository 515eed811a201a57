// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/cliparse"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/middleware"
	"github.com/danielhkuo/quickly-cloud/models"
)

type ConfigHandler struct {
	cfg     cliparse.Config
	catalog *catalog.Catalog
}

func NewConfigHandler(cfg cliparse.Config, cat *catalog.Catalog) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, catalog: cat}
}

// GetConfig handles GET /api/config
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ConfigResponse{
		ResetSelectionTimeoutSeconds: h.cfg.ResetTimeoutSeconds,
		MaxSelections:                catalog.MaxSelections,
		TotalItems:                   h.catalog.Len(),
	})
}

type TranslationHandler struct {
	translator *i18n.Translator
}

func NewTranslationHandler(tr *i18n.Translator) *TranslationHandler {
	return &TranslationHandler{translator: tr}
}

// GetTranslations handles GET /api/translations/{lang}
func (h *TranslationHandler) GetTranslations(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	if lang == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lang is required")
		return
	}

	table, ok := h.translator.Table(lang)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Language not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, table)
}

// GetLanguages handles GET /api/translations
func (h *TranslationHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string][]string{
		"languages": h.translator.Languages(),
	})
}
