// Package httptransport exposes the run lifecycle over HTTP: upload a CSV,
// inspect the result, pay, and download the cleaned files. Handlers delegate
// to the run service and keep no business logic of their own.
package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"dedupe/internal/billing"
	"dedupe/internal/run/models"
	"dedupe/internal/token"
	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
	"dedupe/pkg/platform/httputil"
	"dedupe/pkg/requestcontext"
)

// Uploads larger than this are rejected before parsing.
const maxUploadBytes = 20 << 20

// RunService defines the run operations the transport needs.
type RunService interface {
	Analyze(ctx context.Context, filename string, r io.Reader) (*models.Run, error)
	Get(ctx context.Context, id domain.RunID) (*models.Run, error)
	MarkPaid(ctx context.Context, id domain.RunID) error
}

// Handler wires the run endpoints to the run service.
type Handler struct {
	service  RunService
	checkout billing.Checkout
	signer   *token.Signer
	logger   *slog.Logger
	health   func(ctx context.Context) error
}

// Option configures a Handler.
type Option func(*Handler)

// WithCheckout enables the payment endpoints. Without it the checkout route
// reports payments as unavailable.
func WithCheckout(c billing.Checkout) Option {
	return func(h *Handler) { h.checkout = c }
}

// WithHealthCheck adds a dependency probe to the health endpoint.
func WithHealthCheck(probe func(ctx context.Context) error) Option {
	return func(h *Handler) { h.health = probe }
}

// New constructs the HTTP handler.
func New(service RunService, signer *token.Signer, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		signer:  signer,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the run endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Get("/runs/{runID}", h.handleGetRun)
	r.Post("/runs/{runID}/checkout", h.handleCheckout)
	r.Get("/runs/{runID}/master.csv", h.handleDownloadMaster)
	r.Get("/runs/{runID}/duplicates.csv", h.handleDownloadDuplicates)
	r.Post("/webhook/stripe", h.handleStripeWebhook)
	r.Get("/healthz", h.handleHealthz)
}

// handleUpload handles POST /upload requests.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "multipart file field is required"))
		return
	}
	defer file.Close()

	filename := path.Base(header.Filename)
	if !strings.EqualFold(path.Ext(filename), ".csv") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "only .csv files are accepted"))
		return
	}

	run, err := h.service.Analyze(ctx, filename, file)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload analysis failed",
			"request_id", requestID,
			"filename", filename,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, h.runResponse(ctx, run))
}

// handleGetRun handles GET /runs/{runID} requests.
func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := parseRunID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	run, err := h.service.Get(ctx, runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.runResponse(ctx, run))
}

// handleCheckout handles POST /runs/{runID}/checkout requests.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	runID, err := parseRunID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	run, err := h.service.Get(ctx, runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if run.Paid {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "run is already paid"))
		return
	}
	if h.checkout == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "payments are not configured"))
		return
	}

	checkoutURL, err := h.checkout.CreateSession(ctx, run)
	if err != nil {
		h.logger.ErrorContext(ctx, "checkout session creation failed",
			"request_id", requestID,
			"run_id", runID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "create checkout session"))
		return
	}

	h.logger.InfoContext(ctx, "checkout session created",
		"request_id", requestID,
		"run_id", runID,
		"price_cents", run.PriceCents,
	)
	httputil.WriteJSON(w, http.StatusOK, CheckoutResponse{CheckoutURL: checkoutURL})
}

// handleStripeWebhook handles POST /webhook/stripe requests.
func (h *Handler) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if h.checkout == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "payments are not configured"))
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unreadable webhook payload"))
		return
	}

	runID, completed, err := h.checkout.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.WarnContext(ctx, "webhook verification failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid webhook event"))
		return
	}
	if !completed {
		// Not a checkout completion; acknowledge so Stripe stops retrying.
		httputil.WriteJSON(w, http.StatusOK, WebhookResponse{Received: true})
		return
	}

	if err := h.service.MarkPaid(ctx, runID); err != nil {
		h.logger.ErrorContext(ctx, "marking run paid failed",
			"request_id", requestID,
			"run_id", runID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, WebhookResponse{Received: true})
}

// handleDownloadMaster handles GET /runs/{runID}/master.csv requests.
func (h *Handler) handleDownloadMaster(w http.ResponseWriter, r *http.Request) {
	h.serveDownload(w, r, "master", func(run *models.Run) string {
		return run.Outputs.MasterCSV
	})
}

// handleDownloadDuplicates handles GET /runs/{runID}/duplicates.csv requests.
func (h *Handler) handleDownloadDuplicates(w http.ResponseWriter, r *http.Request) {
	h.serveDownload(w, r, "duplicates", func(run *models.Run) string {
		return run.Outputs.ToDeleteCSV
	})
}

func (h *Handler) serveDownload(w http.ResponseWriter, r *http.Request, suffix string, pick func(*models.Run) string) {
	ctx := r.Context()

	runID, err := parseRunID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tokenID, err := h.signer.Verify(r.URL.Query().Get("token"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if tokenID != runID {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "token does not match run"))
		return
	}

	run, err := h.service.Get(ctx, runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !run.Downloadable() {
		httputil.WriteError(w, dErrors.New(dErrors.CodePaymentRequired, "payment required before download"))
		return
	}

	name := strings.TrimSuffix(run.Filename, path.Ext(run.Filename)) + "_" + suffix + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, pick(run))
}

// handleHealthz handles GET /healthz requests.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func parseRunID(r *http.Request) (domain.RunID, error) {
	runID, err := domain.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		return domain.RunID{}, dErrors.New(dErrors.CodeBadRequest, "invalid run id")
	}
	return runID, nil
}

// downloadLinks signs fresh download tokens for a paid run. The links share
// one token since both files belong to the same run.
func (h *Handler) downloadLinks(ctx context.Context, run *models.Run) *DownloadLinks {
	if !run.Downloadable() || h.signer == nil {
		return nil
	}
	t, err := h.signer.Sign(run.ID, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "signing download token failed", "run_id", run.ID, "error", err)
		return nil
	}
	base := "/runs/" + run.ID.String()
	return &DownloadLinks{
		MasterCSV:     base + "/master.csv?token=" + t,
		DuplicatesCSV: base + "/duplicates.csv?token=" + t,
	}
}

func (h *Handler) runResponse(ctx context.Context, run *models.Run) RunResponse {
	return RunResponse{
		ID:         run.ID.String(),
		Filename:   run.Filename,
		CreatedAt:  run.CreatedAt,
		ExpiresAt:  run.ExpiresAt,
		Summary:    run.Summary,
		PriceCents: run.PriceCents,
		FreeTier:   run.FreeTier,
		Paid:       run.Paid,
		Downloads:  h.downloadLinks(ctx, run),
	}
}
