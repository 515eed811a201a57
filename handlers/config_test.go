// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/models"
	"github.com/danielhkuo/quickly-cloud/testutil"
)

func TestGetConfig(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.ResetTimeoutSeconds = 45

	h := NewConfigHandler(cfg, testutil.TestCatalog(t))

	w := httptest.NewRecorder()
	h.GetConfig(w, testutil.MakeRequest("GET", "/api/config", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ConfigResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ResetSelectionTimeoutSeconds != 45 {
		t.Errorf("Expected timeout 45, got %d", resp.ResetSelectionTimeoutSeconds)
	}
	if resp.MaxSelections != catalog.MaxSelections {
		t.Errorf("Expected max_selections %d, got %d", catalog.MaxSelections, resp.MaxSelections)
	}
	if resp.TotalItems != catalog.DefaultSize {
		t.Errorf("Expected total_items %d, got %d", catalog.DefaultSize, resp.TotalItems)
	}
}

func TestGetTranslations(t *testing.T) {
	h := NewTranslationHandler(testutil.TestTranslator(t))

	tests := []struct {
		name       string
		lang       string
		wantStatus int
		wantTitle  string
	}{
		{"english", "en", http.StatusOK, "Pick your three"},
		{"hebrew", "he", http.StatusOK, ""},
		{"unknown", "xx", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/translations/"+tt.lang, nil, nil)
			req.SetPathValue("lang", tt.lang)
			w := httptest.NewRecorder()

			h.GetTranslations(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var table map[string]string
			testutil.AssertJSON(t, w, &table)
			if table["item1"] == "" {
				t.Error("Expected item1 translation")
			}
			if tt.wantTitle != "" && table["title"] != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, table["title"])
			}
		})
	}
}

func TestGetLanguages(t *testing.T) {
	h := NewTranslationHandler(testutil.TestTranslator(t))

	w := httptest.NewRecorder()
	h.GetLanguages(w, testutil.MakeRequest("GET", "/api/translations", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp map[string][]string
	testutil.AssertJSON(t, w, &resp)

	want := []string{"ar", "en", "he"}
	got := resp["languages"]
	if len(got) != len(want) {
		t.Fatalf("Expected languages %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("languages[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
