package engine

import (
	"context"
	"fmt"
	"time"

	"dedupe/internal/engine/metrics"
	dErrors "dedupe/pkg/domain-errors"
)

// ErrEmptyInput is returned when no usable rows remain after skipping
// malformed ones. The accompanying Result still carries the warnings.
var ErrEmptyInput = dErrors.New(dErrors.CodeEmptyInput, "no usable rows to process")

// Config holds the matching thresholds. Zero values are invalid; start from
// DefaultConfig.
type Config struct {
	// NameThreshold is the fuzzy name similarity required to treat a pair
	// as duplicates, on a 0-1 scale.
	NameThreshold float64

	// StrictNameThreshold replaces NameThreshold when the shorter of the
	// two names has fewer than ShortNameLen runes.
	StrictNameThreshold float64

	// ShortNameLen is the rune count below which a name counts as short.
	ShortNameLen int
}

// DefaultConfig returns the documented default thresholds. ShortNameLen 9
// keeps "person 1" vs "person 10" apart under the strict threshold while
// "jon smith" vs "john smith" still matches at the normal one.
func DefaultConfig() Config {
	return Config{
		NameThreshold:       0.85,
		StrictNameThreshold: 0.95,
		ShortNameLen:        9,
	}
}

// Validate rejects thresholds outside [0,1] before any row is processed.
func (c Config) Validate() error {
	if c.NameThreshold < 0 || c.NameThreshold > 1 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("name threshold %v outside [0,1]", c.NameThreshold))
	}
	if c.StrictNameThreshold < 0 || c.StrictNameThreshold > 1 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("strict name threshold %v outside [0,1]", c.StrictNameThreshold))
	}
	if c.ShortNameLen < 0 {
		return dErrors.New(dErrors.CodeValidation, "short name length must be non-negative")
	}
	return nil
}

// Engine runs deduplication over one in-memory table. It holds no per-run
// state and is safe to share across concurrent runs.
type Engine struct {
	cfg     Config
	scorer  *scorer
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches prometheus instrumentation to the engine.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New constructs an engine, validating configuration up front.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, scorer: newScorer(cfg)}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run deduplicates the table: normalize rows, cluster near-duplicates, apply
// the merge policy, and assemble the Master and ToDelete outputs. Malformed
// rows are skipped with warnings; only an empty usable input or bad
// configuration fail the run. Output is deterministic: the same table and
// config always produce byte-identical tables.
func (e *Engine) Run(ctx context.Context, t Table) (*Result, error) {
	start := time.Now()

	schema := DetectSchema(t.Columns)

	var (
		records  []Record
		keys     []Key
		warnings []RowWarning
	)
	for _, row := range t.Rows {
		key := normalizeRecord(schema, row, len(records))
		if !key.usable() {
			warnings = append(warnings, RowWarning{
				Index:   row.Index,
				Message: "no usable name or email value",
			})
			continue
		}
		records = append(records, row)
		keys = append(keys, key)
	}

	if len(records) == 0 {
		return &Result{Columns: t.Columns, Warnings: warnings, TotalRows: len(t.Rows)}, ErrEmptyInput
	}

	clusters, err := buildClusters(ctx, keys, e.scorer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "clustering interrupted")
	}

	decisions := make([]Decision, len(clusters))
	for i, c := range clusters {
		decisions[i] = decide(c, records, keys, schema, t.Columns)
	}

	res := assemble(t, records, clusters, decisions, warnings)

	if e.metrics != nil {
		e.metrics.ObserveRun(start, res)
	}

	return res, nil
}
