// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-cloud/models"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithLogging_RecordsVoteOutcome(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"accepted vote", http.StatusCreated, "level=INFO"},
		{"rejected vote", http.StatusBadRequest, "level=WARN"},
		{"rate limited", http.StatusTooManyRequests, "level=WARN"},
		{"store failure", http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := captureLogs(t)
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				JSONResponse(w, tc.status, map[string]bool{"success": tc.status == http.StatusCreated})
			})

			req := httptest.NewRequest("POST", "/api/vote", strings.NewReader(`{"items":["item1"]}`))
			req.RemoteAddr = "192.0.2.7:5123"
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}
			line := logs.String()
			for _, want := range []string{tc.wantLevel, "path=/api/vote", "client=192.0.2.7"} {
				if !strings.Contains(line, want) {
					t.Errorf("Expected log to contain %q, got %q", want, line)
				}
			}
		})
	}
}

func TestWithLogging_ImplicitOK(t *testing.T) {
	logs := captureLogs(t)
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"item1":3}`))
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/votes", nil))

	if w.Body.String() != `{"item1":3}` {
		t.Errorf("Expected counts body untouched, got %q", w.Body.String())
	}
	if !strings.Contains(logs.String(), "status=200") {
		t.Errorf("Expected status=200 logged, got %q", logs.String())
	}
}

func TestErrorResponse_RateLimited(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusTooManyRequests, "Too many submissions, slow down")

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if body.Error != "Too Many Requests" {
		t.Errorf("Expected status text in error field, got %q", body.Error)
	}
	if body.Message != "Too many submissions, slow down" {
		t.Errorf("Unexpected message %q", body.Message)
	}
}

func TestLimit_RejectsWithJSON(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusCreated, models.VoteResponse{Success: true, VoteID: "v1"})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/vote", strings.NewReader(`{"items":["item1","item2"]}`))
		req.RemoteAddr = "198.51.100.4:9000"
		w := httptest.NewRecorder()
		handler(w, req)
		return w
	}

	if w := send(); w.Code != http.StatusCreated {
		t.Fatalf("Expected first vote accepted, got %d", w.Code)
	}

	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Expected JSON error body: %v", err)
	}
	if body.Error != http.StatusText(http.StatusTooManyRequests) {
		t.Errorf("Unexpected error field %q", body.Error)
	}
}

func TestParseJSONBody_Vote(t *testing.T) {
	t.Run("full vote", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/vote", strings.NewReader(`{"items":["item3","item1","item7"],"language":"he"}`))
		var vote models.VoteRequest
		if err := ParseJSONBody(req, &vote); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(vote.Items) != 3 || vote.Items[0] != "item3" || vote.Items[2] != "item7" {
			t.Errorf("Expected item order preserved, got %v", vote.Items)
		}
		if vote.Language != "he" {
			t.Errorf("Expected language he, got %q", vote.Language)
		}
	})

	t.Run("language omitted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/vote", strings.NewReader(`{"items":["item1"]}`))
		var vote models.VoteRequest
		if err := ParseJSONBody(req, &vote); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if vote.Language != "" {
			t.Errorf("Expected empty language, got %q", vote.Language)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/vote", strings.NewReader(`{"items":["item1"`))
		var vote models.VoteRequest
		if err := ParseJSONBody(req, &vote); err == nil {
			t.Error("Expected error for truncated JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/vote", http.NoBody)
		var vote models.VoteRequest
		if err := ParseJSONBody(req, &vote); err == nil {
			t.Error("Expected error for empty body")
		}
	})

	t.Run("oversized", func(t *testing.T) {
		items := make([]string, 0, 4000)
		for i := 0; i < cap(items); i++ {
			items = append(items, "item1")
		}
		payload, _ := json.Marshal(models.VoteRequest{Items: items})
		if len(payload) <= MaxBodyBytes {
			t.Fatalf("payload of %d bytes is not over the limit", len(payload))
		}

		req := httptest.NewRequest("POST", "/api/vote", bytes.NewReader(payload))
		var vote models.VoteRequest
		if err := ParseJSONBody(req, &vote); !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("Expected ErrBodyTooLarge, got %v", err)
		}
	})
}

func TestCORS(t *testing.T) {
	nextCalled := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight for admin clear", func(t *testing.T) {
		nextCalled = false
		req := httptest.NewRequest("OPTIONS", "/api/votes", nil)
		req.Header.Set("Origin", "http://kiosk.local")
		req.Header.Set("Access-Control-Request-Method", "DELETE")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
		if nextCalled {
			t.Error("Preflight should not reach the handler")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
			t.Error("Expected DELETE allowed")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Key") {
			t.Error("Expected X-Admin-Key allowed")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://kiosk.local" {
			t.Error("Expected origin reflected")
		}
		if w.Header().Get("Vary") != "Origin" {
			t.Error("Expected Vary: Origin when reflecting")
		}
	})

	t.Run("vote from kiosk page", func(t *testing.T) {
		nextCalled = false
		req := httptest.NewRequest("POST", "/api/vote", strings.NewReader(`{"items":["item1"]}`))
		req.Header.Set("Origin", "http://kiosk.local")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if !nextCalled {
			t.Error("Expected vote to reach the handler")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Device-UUID") {
			t.Error("Expected X-Device-UUID allowed")
		}
	})

	t.Run("no origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/wordcloud", nil))

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected wildcard origin")
		}
		if strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PUT") {
			t.Error("PUT is not served by any route")
		}
	})
}

func TestProxyTrust_ClientIP(t *testing.T) {
	lb := NewProxyTrust([]netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("fd00::/8"),
	})

	testCases := []struct {
		name     string
		trust    *ProxyTrust
		remote   string
		xff      []string
		xri      string
		expected string
	}{
		{"direct client", lb, "198.51.100.9:5000", nil, "", "198.51.100.9"},
		{"untrusted peer spoofing header", lb, "198.51.100.9:5000", []string{"1.2.3.4"}, "", "198.51.100.9"},
		{"untrusted peer spoofing real ip", lb, "198.51.100.9:5000", nil, "1.2.3.4", "198.51.100.9"},
		{"nil trust ignores headers", nil, "10.0.0.2:443", []string{"1.2.3.4"}, "", "10.0.0.2"},
		{"trusted proxy single hop", lb, "10.0.0.2:443", []string{"203.0.113.5"}, "", "203.0.113.5"},
		{"trusted proxy takes appended hop", lb, "10.0.0.2:443", []string{"1.2.3.4, 203.0.113.5"}, "", "203.0.113.5"},
		{"chained trusted proxies", lb, "10.0.0.2:443", []string{"1.2.3.4, 203.0.113.5, 10.4.4.4"}, "", "203.0.113.5"},
		{"repeated header lines", lb, "10.0.0.2:443", []string{"1.2.3.4", "203.0.113.5"}, "", "203.0.113.5"},
		{"garbage hop", lb, "10.0.0.2:443", []string{"203.0.113.5, not-an-ip"}, "", "10.0.0.2"},
		{"only trusted hops falls back to real ip", lb, "10.0.0.2:443", []string{"10.9.9.9"}, "203.0.113.8", "203.0.113.8"},
		{"trusted proxy with real ip", lb, "10.0.0.2:443", nil, "203.0.113.8", "203.0.113.8"},
		{"trusted proxy no headers", lb, "10.0.0.2:443", nil, "", "10.0.0.2"},
		{"ipv6 proxy", lb, "[fd00::1]:443", []string{"2001:db8::7"}, "", "2001:db8::7"},
		{"ipv6 direct", lb, "[2001:db8::9]:443", []string{"203.0.113.5"}, "", "2001:db8::9"},
		{"remote without port", lb, "198.51.100.9", nil, "", "198.51.100.9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/vote", nil)
			req.RemoteAddr = tc.remote
			for _, v := range tc.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tc.xri != "" {
				req.Header.Set("X-Real-IP", tc.xri)
			}

			if got := tc.trust.ClientIP(req); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	t.Run("without resolve uses peer", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/vote", nil)
		req.RemoteAddr = "192.0.2.44:1234"
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		req.Header.Set("X-Real-IP", "5.6.7.8")

		if got := GetClientIP(req); got != "192.0.2.44" {
			t.Errorf("Expected peer address, got %s", got)
		}
	})

	t.Run("after resolve uses resolved ip", func(t *testing.T) {
		trust := NewProxyTrust([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})
		var seen string
		handler := trust.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetClientIP(r)
		}))

		req := httptest.NewRequest("POST", "/api/vote", nil)
		req.RemoteAddr = "10.0.0.2:443"
		req.Header.Set("X-Forwarded-For", "203.0.113.5")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if seen != "203.0.113.5" {
			t.Errorf("Expected forwarded client, got %s", seen)
		}
	})
}
