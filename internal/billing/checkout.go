package billing

import (
	"context"

	"dedupe/internal/run/models"
	"dedupe/pkg/domain"
)

// Checkout abstracts the payment provider so handlers and tests never touch
// Stripe directly.
type Checkout interface {
	// CreateSession starts a checkout for the run and returns the URL the
	// client should be redirected to.
	CreateSession(ctx context.Context, run *models.Run) (string, error)

	// VerifyEvent authenticates a webhook payload and reports which run
	// was paid, if any. A (zero, false, nil) return means the event was
	// valid but not a completed payment.
	VerifyEvent(payload []byte, signature string) (domain.RunID, bool, error)
}
