// Package service orchestrates one deduplication run: parse the upload, run
// the engine, quote the price, and cache the outputs until download or expiry.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"dedupe/internal/billing"
	"dedupe/internal/csvio"
	"dedupe/internal/engine"
	"dedupe/internal/run/metrics"
	"dedupe/internal/run/models"
	"dedupe/internal/run/store"
	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
	"dedupe/pkg/requestcontext"
)

// Service coordinates runs. The engine is stateless and session-unaware;
// everything session-shaped lives here and in the store.
type Service struct {
	store   store.Store
	engine  *engine.Engine
	pricing billing.Pricing
	ttl     time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the run service.
func New(st store.Store, eng *engine.Engine, pricing billing.Pricing, ttl time.Duration, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("run store is required")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("run TTL must be positive")
	}

	svc := &Service{
		store:   st,
		engine:  eng,
		pricing: pricing,
		ttl:     ttl,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Analyze reads a CSV upload, deduplicates it, and caches the outputs under
// a fresh run ID. Free-tier runs come back already paid.
func (s *Service) Analyze(ctx context.Context, filename string, r io.Reader) (*models.Run, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)

	table, readWarnings, err := csvio.ReadTable(r)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Run(ctx, table)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyInput) && result != nil {
			// Surface the row warnings so the caller can see why nothing
			// was processable.
			return nil, dErrors.Wrap(err, dErrors.CodeEmptyInput,
				fmt.Sprintf("no usable rows (%d skipped)", len(readWarnings)+len(result.Warnings)))
		}
		return nil, err
	}

	masterCSV, err := csvio.RenderTable(result.Master)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "render master csv")
	}
	toDeleteCSV, err := csvio.RenderTable(result.ToDelete)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "render to-delete csv")
	}

	priceCents, freeTier := s.pricing.Quote(result.TotalRows)

	run := &models.Run{
		ID:        domain.NewRunID(),
		Filename:  filename,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Summary: models.Summary{
			TotalRows:    result.TotalRows,
			CleanCount:   result.CleanCount,
			MergedCount:  result.MergedCount,
			FlaggedCount: result.FlaggedCount,
			Clusters:     result.Clusters,
			Warnings:     append(readWarnings, result.Warnings...),
		},
		Outputs: models.Outputs{
			MasterCSV:   masterCSV,
			ToDeleteCSV: toDeleteCSV,
		},
		PriceCents: priceCents,
		FreeTier:   freeTier,
		// Free tier unlocks downloads immediately.
		Paid: freeTier,
	}

	if err := s.store.Save(ctx, run); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveAnalyze(start, result.TotalRows)
		if run.Paid {
			s.metrics.IncrementPaid()
		}
	}
	s.logger.InfoContext(ctx, "upload analyzed",
		"request_id", requestcontext.RequestID(ctx),
		"run_id", run.ID,
		"filename", filename,
		"rows", result.TotalRows,
		"merged", result.MergedCount,
		"flagged_groups", result.FlaggedCount,
		"warnings", len(run.Summary.Warnings),
		"free_tier", freeTier,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return run, nil
}

// Get loads a run by ID.
func (s *Service) Get(ctx context.Context, id domain.RunID) (*models.Run, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "run id is required")
	}
	return s.store.Find(ctx, id)
}

// MarkPaid unlocks downloads for a run after payment completes.
func (s *Service) MarkPaid(ctx context.Context, id domain.RunID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "run id is required")
	}
	if err := s.store.MarkPaid(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementPaid()
	}
	s.logger.InfoContext(ctx, "run paid", "run_id", id)
	return nil
}
