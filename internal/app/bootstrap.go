// Package app wires startup concerns that sit above the engine.
package app

import (
	"context"
	"fmt"
	"log"

	"clipdesk/internal/engine"
)

// EnsureAdmin seeds the first admin account when none exists. The password
// must come from the environment; seeding is skipped (with a warning) when it
// is absent so a fresh server still starts. A nil logger falls back to the
// default logger.
func EnsureAdmin(ctx context.Context, eng *engine.Engine, email, password string, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	n, err := eng.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		logger.Printf("WARNING: no admin accounts and no seed password set; admin endpoints are unreachable until you set CLIPDESK_ADMIN_PASSWORD and restart, or run: clipdesk admin create")
		return nil
	}
	a, err := eng.CreateAdmin(ctx, email, password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Printf("seeded admin account %s", a.Email)
	return nil
}
