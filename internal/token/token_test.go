package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
)

func TestSignAndVerify(t *testing.T) {
	signer := NewSigner("test-key", time.Hour)
	runID := domain.NewRunID()

	tok, err := signer.Sign(runID, time.Now())
	require.NoError(t, err)

	got, err := signer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, runID, got)
}

func TestVerifyExpired(t *testing.T) {
	signer := NewSigner("test-key", time.Hour)

	tok, err := signer.Sign(domain.NewRunID(), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = signer.Verify(tok)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerifyWrongKey(t *testing.T) {
	signer := NewSigner("test-key", time.Hour)
	other := NewSigner("other-key", time.Hour)

	tok, err := signer.Sign(domain.NewRunID(), time.Now())
	require.NoError(t, err)

	_, err = other.Verify(tok)
	require.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	signer := NewSigner("test-key", time.Hour)
	_, err := signer.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
