package handlers

import (
	"context"
	"fmt"
	"os"
)

// FilePresenceChecker reports unhealthy when the configured SQLite file at
// Path does not exist — the degrade-not-refuse posture from
// internal/config means a missing store path doesn't stop the process from
// booting, but GET /health should still surface it.
type FilePresenceChecker struct {
	CheckerName string
	Path        string
}

// Name returns the checker's label, used as its key in the health response.
func (c *FilePresenceChecker) Name() string { return c.CheckerName }

// Check reports an error when Path is unset or the file is absent.
func (c *FilePresenceChecker) Check(_ context.Context) error {
	if c.Path == "" {
		return fmt.Errorf("not configured")
	}
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("store file unreachable: %w", err)
	}
	return nil
}

// BaseURLPresenceChecker reports unhealthy when an external collaborator's
// base URL was left unconfigured, signalling that the panels depending on
// it will run in a degraded, warning-only mode.
type BaseURLPresenceChecker struct {
	CheckerName string
	BaseURL     string
}

// Name returns the checker's label, used as its key in the health response.
func (c *BaseURLPresenceChecker) Name() string { return c.CheckerName }

// Check reports an error when BaseURL is unset.
func (c *BaseURLPresenceChecker) Check(_ context.Context) error {
	if c.BaseURL == "" {
		return fmt.Errorf("not configured")
	}
	return nil
}
