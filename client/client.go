// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client talks to the Quickly Cloud API on behalf of a kiosk.
//
// Reads retry with exponential backoff. SubmitVote never retries: a vote
// whose response was lost may already have been counted.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/models"
)

const (
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
	maxDelay        = 2 * time.Second
)

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Temporary reports whether repeating the request could succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	deviceUUID string
	attempts   uint
	delay      time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. to change the timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDeviceUUID sends X-Device-UUID so votes are linked to this kiosk.
func WithDeviceUUID(id string) Option {
	return func(c *Client) { c.deviceUUID = id }
}

func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.delay = delay
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		attempts:   defaultAttempts,
		delay:      defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitVote posts one selection. Success means every item was counted.
func (c *Client) SubmitVote(ctx context.Context, req models.VoteRequest) error {
	var resp models.VoteResponse
	if err := c.do(ctx, http.MethodPost, "/api/vote", req, &resp, nil); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("server did not confirm the vote")
	}
	return nil
}

func (c *Client) GetConfig(ctx context.Context) (models.ConfigResponse, error) {
	var cfg models.ConfigResponse
	err := c.get(ctx, "config", "/api/config", &cfg)
	return cfg, err
}

func (c *Client) GetCounts(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	err := c.get(ctx, "counts", "/api/votes", &counts)
	return counts, err
}

func (c *Client) GetCloud(ctx context.Context, lang string) (models.CloudResponse, error) {
	var cloud models.CloudResponse
	err := c.get(ctx, "wordcloud", "/api/wordcloud?lang="+url.QueryEscape(lang), &cloud)
	return cloud, err
}

func (c *Client) GetTranslations(ctx context.Context, lang string) (i18n.Table, error) {
	table := i18n.Table{}
	err := c.get(ctx, "translations", "/api/translations/"+url.PathEscape(lang), &table)
	return table, err
}

// RegisterDevice is safe to repeat; the server returns the existing ID.
func (c *Client) RegisterDevice(ctx context.Context, platform string) (models.RegisterDeviceResponse, error) {
	var resp models.RegisterDeviceResponse
	err := c.withRetry(ctx, "register", func() error {
		return c.do(ctx, http.MethodPost, "/devices/register", models.RegisterDeviceRequest{Platform: platform}, &resp, nil)
	})
	return resp, err
}

// ClearCounts wipes every stored vote and counter. It is not retried so an
// operator sees the first refusal or failure as is.
func (c *Client) ClearCounts(ctx context.Context, adminKey string) (models.ClearCountsResponse, error) {
	var resp models.ClearCountsResponse
	hdr := http.Header{}
	hdr.Set("X-Admin-Key", adminKey)
	err := c.do(ctx, http.MethodDelete, "/api/votes", nil, &resp, hdr)
	return resp, err
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.withRetry(ctx, op, func() error {
		return c.do(ctx, http.MethodGet, path, nil, out, nil)
	})
}

func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("retrying request", "operation", op, "attempt", n+1, "max_attempts", c.attempts, "error", err)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	// Transport errors: refused connections, timeouts, resets
	return !errors.Is(err, context.Canceled)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, hdr http.Header) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.deviceUUID != "" {
		req.Header.Set("X-Device-UUID", c.deviceUUID)
	}
	for k, v := range hdr {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
