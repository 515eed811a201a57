// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-cloud/models"
)

// ConfigReader fetches the kiosk configuration.
type ConfigReader interface {
	GetConfig(ctx context.Context) (models.ConfigResponse, error)
}

// LoadIdleTimeout reads reset_selection_timeout_seconds and applies it.
// Failures leave the current timeout in place; the returned error is only
// informational and never needs to reach the user.
func (c *Controller) LoadIdleTimeout(ctx context.Context, reader ConfigReader) error {
	cfg, err := reader.GetConfig(ctx)
	if err != nil {
		slog.Debug("config unavailable, keeping idle timeout", "timeout", c.IdleTimeout(), "error", err)
		return &CollaboratorUnavailableError{Op: "config", Err: err}
	}
	if cfg.ResetSelectionTimeoutSeconds <= 0 {
		slog.Debug("config has no usable idle timeout, keeping default", "timeout", c.IdleTimeout())
		return ErrConfigMissing
	}

	d := time.Duration(cfg.ResetSelectionTimeoutSeconds) * time.Second
	c.SetIdleTimeout(d)
	slog.Debug("idle timeout loaded", "timeout", d)
	return nil
}
