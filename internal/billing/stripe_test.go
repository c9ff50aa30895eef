package billing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
)

// Tests run without a webhook secret so events parse unverified; signature
// verification itself belongs to the Stripe SDK.
func TestVerifyEventCompleted(t *testing.T) {
	checkout := NewStripeCheckout("", "", "http://localhost:8080")
	runID := domain.NewRunID()

	payload := fmt.Sprintf(`{
		"type": "checkout.session.completed",
		"data": {"object": {"metadata": {"run_id": %q}}}
	}`, runID.String())

	got, completed, err := checkout.VerifyEvent([]byte(payload), "")
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, runID, got)
}

func TestVerifyEventIgnoresOtherTypes(t *testing.T) {
	checkout := NewStripeCheckout("", "", "http://localhost:8080")

	_, completed, err := checkout.VerifyEvent([]byte(`{"type":"invoice.created"}`), "")
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestVerifyEventBadPayload(t *testing.T) {
	checkout := NewStripeCheckout("", "", "http://localhost:8080")

	_, _, err := checkout.VerifyEvent([]byte("not json"), "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestVerifyEventMissingRunID(t *testing.T) {
	checkout := NewStripeCheckout("", "", "http://localhost:8080")

	payload := `{"type": "checkout.session.completed", "data": {"object": {"metadata": {}}}}`
	_, _, err := checkout.VerifyEvent([]byte(payload), "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
