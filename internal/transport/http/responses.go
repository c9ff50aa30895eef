package httptransport

import (
	"time"

	"dedupe/internal/run/models"
)

// RunResponse is the public view of a run. Outputs are never inlined; paid
// runs get signed download links instead.
type RunResponse struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Summary    models.Summary `json:"summary"`
	PriceCents int            `json:"price_cents"`
	FreeTier   bool           `json:"free_tier"`
	Paid       bool           `json:"paid"`
	Downloads  *DownloadLinks `json:"downloads,omitempty"`
}

// DownloadLinks carries tokenized URLs for the rendered CSV files.
type DownloadLinks struct {
	MasterCSV     string `json:"master_csv"`
	DuplicatesCSV string `json:"duplicates_csv"`
}

// CheckoutResponse carries the Stripe-hosted payment page URL.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}
