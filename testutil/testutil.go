// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-cloud/auth"
	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/cliparse"
	"github.com/danielhkuo/quickly-cloud/db"
	"github.com/danielhkuo/quickly-cloud/i18n"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "test.db")

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                3318,
		DatabaseURL:         ":memory:",
		DatabaseType:        cliparse.DatabaseSQLite,
		AdminKeySalt:        "test-admin-salt",
		ResetTimeoutSeconds: cliparse.DefaultResetTimeoutSeconds,
		TotalItems:          catalog.DefaultSize,
		VoteRate:            100,
		VoteBurst:           100,
	}
}

// AdminKey returns the counts admin key for cfg
func AdminKey(cfg cliparse.Config) string {
	return auth.GenerateAdminKey(auth.ScopeCounts, cfg.AdminKeySalt)
}

// TestCatalog returns the default item1..item13 catalog
func TestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New(catalog.DefaultSize)
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return cat
}

// TestTranslator loads the embedded translation tables
func TestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()

	tr, err := i18n.Load()
	if err != nil {
		t.Fatalf("Failed to load translations: %v", err)
	}
	return tr
}

// SeedCounts sets counters directly, bypassing the vote log
func SeedCounts(t *testing.T, db *sql.DB, counts map[string]int) {
	t.Helper()

	for itemID, total := range counts {
		_, err := db.Exec(`
			INSERT INTO item_count (item_id, total)
			VALUES ($1, $2)
			ON CONFLICT (item_id) DO UPDATE SET total = excluded.total
		`, itemID, total)
		if err != nil {
			t.Fatalf("Failed to seed count for %s: %v", itemID, err)
		}
	}
}

// CreateTestDevice registers a device and returns its ID
func CreateTestDevice(t *testing.T, db *sql.DB, deviceUUID, platform string) string {
	t.Helper()

	deviceID, _ := auth.GenerateID(16)
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO device (id, device_uuid, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, platform, now, now)
	if err != nil {
		t.Fatalf("Failed to create test device: %v", err)
	}

	return deviceID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
