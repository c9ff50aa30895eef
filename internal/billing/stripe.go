package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"dedupe/internal/run/models"
	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
)

const metadataRunID = "run_id"

// StripeCheckout collects payment through Stripe Checkout sessions. One
// session is created per run; the run ID travels in the session metadata and
// comes back on the completion webhook.
type StripeCheckout struct {
	webhookSecret string
	baseURL       string
	currency      string
}

// NewStripeCheckout configures the package-level Stripe client.
func NewStripeCheckout(secretKey, webhookSecret, baseURL string) *StripeCheckout {
	stripe.Key = secretKey
	return &StripeCheckout{
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		currency:      "eur",
	}
}

func (s *StripeCheckout) CreateSession(_ context.Context, run *models.Run) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(int64(run.PriceCents)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(fmt.Sprintf("CSV deduplication - %d records", run.Summary.TotalRows)),
					Description: stripe.String(fmt.Sprintf("Deduplicate %s", run.Filename)),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(fmt.Sprintf("%s/runs/%s", s.baseURL, run.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/runs/%s", s.baseURL, run.ID)),
	}
	params.AddMetadata(metadataRunID, run.ID.String())

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "create checkout session")
	}
	return sess.URL, nil
}

func (s *StripeCheckout) VerifyEvent(payload []byte, signature string) (domain.RunID, bool, error) {
	var event stripe.Event
	if s.webhookSecret == "" {
		// No webhook secret configured; accept the payload unverified.
		// Only acceptable for local development.
		if err := json.Unmarshal(payload, &event); err != nil {
			return domain.RunID{}, false, dErrors.Wrap(err, dErrors.CodeBadRequest, "unparseable webhook payload")
		}
	} else {
		var err error
		event, err = webhook.ConstructEvent(payload, signature, s.webhookSecret)
		if err != nil {
			return domain.RunID{}, false, dErrors.Wrap(err, dErrors.CodeBadRequest, "webhook signature verification failed")
		}
	}

	if event.Type != "checkout.session.completed" {
		return domain.RunID{}, false, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return domain.RunID{}, false, dErrors.Wrap(err, dErrors.CodeBadRequest, "unparseable checkout session")
	}

	runID, err := domain.ParseRunID(sess.Metadata[metadataRunID])
	if err != nil {
		return domain.RunID{}, false, dErrors.Wrap(err, dErrors.CodeBadRequest, "webhook missing run_id metadata")
	}
	return runID, true, nil
}

var _ Checkout = (*StripeCheckout)(nil)
