// Package engine implements the business operations behind the API and CLI.
package engine

import (
	"database/sql"
	"fmt"
	"time"

	"clipdesk/internal/config"
	"clipdesk/internal/repo"
	"clipdesk/internal/tier"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Config *config.Config
	// Now is injectable for tests. Nil means time.Now.
	Now func() time.Time
}

func New(db *sql.DB, cfg *config.Config) *Engine {
	return &Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Config: cfg,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

func (e *Engine) rules() tier.Ruleset {
	if e.Config == nil {
		return tier.Default()
	}
	return tier.Ruleset{
		EliteKeywords:  e.Config.Classifier.EliteKeywords,
		BasicVolumeMax: e.Config.Classifier.BasicVolumeMax,
		EliteVolumeMin: e.Config.Classifier.EliteVolumeMin,
	}
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
