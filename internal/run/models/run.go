// Package models defines the run session: one analyzed upload and its cached
// outputs, held until the TTL expires or the caller downloads them.
package models

import (
	"time"

	"dedupe/internal/engine"
	"dedupe/pkg/domain"
)

// Summary carries the counts and cluster reports surfaced to the caller
// before payment.
type Summary struct {
	TotalRows    int                    `json:"total_rows"`
	CleanCount   int                    `json:"clean_count"`
	MergedCount  int                    `json:"merged_count"`
	FlaggedCount int                    `json:"flagged_count"`
	Clusters     []engine.ClusterReport `json:"clusters"`
	Warnings     []engine.RowWarning    `json:"warnings,omitempty"`
}

// Outputs holds the rendered CSV files. They are produced once per run and
// never regenerated.
type Outputs struct {
	MasterCSV   string `json:"master_csv"`
	ToDeleteCSV string `json:"to_delete_csv"`
}

// Run is one deduplication session. The engine knows nothing about runs;
// this is purely host-side bookkeeping.
type Run struct {
	ID        domain.RunID `json:"id"`
	Filename  string       `json:"filename"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`

	Summary Summary `json:"summary"`
	Outputs Outputs `json:"outputs"`

	PriceCents int  `json:"price_cents"`
	FreeTier   bool `json:"free_tier"`
	Paid       bool `json:"paid"`
}

// Downloadable reports whether the outputs may be served.
func (r *Run) Downloadable() bool {
	return r.Paid
}

// Expired reports whether the run is past its TTL at the given time.
func (r *Run) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}
