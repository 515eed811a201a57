// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-cloud/middleware"
	"github.com/danielhkuo/quickly-cloud/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRetry(3, 0)}, opts...)
	return New(srv.URL+"/", opts...)
}

func TestSubmitVote(t *testing.T) {
	var got models.VoteRequest
	var deviceHeader string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/vote", r.URL.Path)
		deviceHeader = r.Header.Get("X-Device-UUID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
			Success: true,
			VoteID:  "v1",
			Votes:   map[string]int{"item1": 1},
		})
	}, WithDeviceUUID("kiosk-7"))

	err := c.SubmitVote(t.Context(), models.VoteRequest{Items: []string{"item1", "item2", "item3"}, Language: "he"})
	require.NoError(t, err)

	assert.Equal(t, []string{"item1", "item2", "item3"}, got.Items)
	assert.Equal(t, "he", got.Language)
	assert.Equal(t, "kiosk-7", deviceHeader)
}

func TestSubmitVote_NeverRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "down for maintenance")
	})

	err := c.SubmitVote(t.Context(), models.VoteRequest{Items: []string{"item1"}})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "down for maintenance", se.Message)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmitVote_Unconfirmed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{Success: false})
	})

	assert.Error(t, c.SubmitVote(t.Context(), models.VoteRequest{Items: []string{"item1"}}))
}

func TestGetConfig_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			middleware.ErrorResponse(w, http.StatusInternalServerError, "try later")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.ConfigResponse{
			ResetSelectionTimeoutSeconds: 30,
			MaxSelections:                3,
			TotalItems:                   13,
		})
	})

	cfg, err := c.GetConfig(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ResetSelectionTimeoutSeconds)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGetTranslations_NotFoundIsFinal(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/translations/xx", r.URL.Path)
		middleware.ErrorResponse(w, http.StatusNotFound, "Language not found")
	})

	_, err := c.GetTranslations(t.Context(), "xx")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.False(t, se.Temporary())
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetCountsAndCloud(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/votes":
			middleware.JSONResponse(w, http.StatusOK, map[string]int{"item2": 4})
		case "/api/wordcloud":
			assert.Equal(t, "ar", r.URL.Query().Get("lang"))
			middleware.JSONResponse(w, http.StatusOK, models.CloudResponse{Language: "ar", RTL: true})
		default:
			http.NotFound(w, r)
		}
	})

	counts, err := c.GetCounts(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"item2": 4}, counts)

	cloud, err := c.GetCloud(t.Context(), "ar")
	require.NoError(t, err)
	assert.True(t, cloud.RTL)
}

func TestRegisterDevice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kiosk-9", r.Header.Get("X-Device-UUID"))
		var req models.RegisterDeviceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.PlatformKiosk, req.Platform)
		middleware.JSONResponse(w, http.StatusCreated, models.RegisterDeviceResponse{DeviceID: "d1", IsNew: true})
	}, WithDeviceUUID("kiosk-9"))

	resp, err := c.RegisterDevice(t.Context(), models.PlatformKiosk)
	require.NoError(t, err)
	assert.Equal(t, "d1", resp.DeviceID)
	assert.True(t, resp.IsNew)
}

func TestStatusError_Temporary(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, (&StatusError{Code: tt.code}).Temporary(), "code %d", tt.code)
	}
}

func TestClearCounts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/votes", r.URL.Path)
		if r.Header.Get("X-Admin-Key") != "right-key" {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.ClearCountsResponse{Success: true, Removed: 7})
	})

	resp, err := c.ClearCounts(t.Context(), "right-key")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 7, resp.Removed)

	_, err = c.ClearCounts(t.Context(), "wrong-key")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Invalid admin key", se.Message)
	assert.EqualValues(t, 2, calls.Load())
}

type countingTransport struct {
	n atomic.Int32
}

func (ct *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ct.n.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestWithHTTPClient(t *testing.T) {
	transport := &countingTransport{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.ConfigResponse{ResetSelectionTimeoutSeconds: 45})
	}, WithHTTPClient(&http.Client{Transport: transport}))

	cfg, err := c.GetConfig(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.ResetSelectionTimeoutSeconds)
	assert.EqualValues(t, 1, transport.n.Load())
}
