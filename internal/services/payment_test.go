package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentVerifierAcceptsValidSignature(t *testing.T) {
	v := NewPaymentVerifier("test-secret")

	sig := v.Sign("order_123", "pay_456")
	assert.NoError(t, v.Verify("order_123", "pay_456", sig))
}

func TestPaymentVerifierRejectsMutations(t *testing.T) {
	v := NewPaymentVerifier("test-secret")
	sig := v.Sign("order_123", "pay_456")
	require.NoError(t, v.Verify("order_123", "pay_456", sig))

	// Any single-character mutation of signature, order ref or payment ref
	// must fail.
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.ErrorIs(t, v.Verify("order_123", "pay_456", string(mutated)), ErrPaymentVerificationFailed)
	assert.ErrorIs(t, v.Verify("order_124", "pay_456", sig), ErrPaymentVerificationFailed)
	assert.ErrorIs(t, v.Verify("order_123", "pay_457", sig), ErrPaymentVerificationFailed)
}

func TestPaymentVerifierRejectsWrongSecret(t *testing.T) {
	sig := NewPaymentVerifier("other-secret").Sign("order_123", "pay_456")

	v := NewPaymentVerifier("test-secret")
	assert.ErrorIs(t, v.Verify("order_123", "pay_456", sig), ErrPaymentVerificationFailed)
}

func TestPaymentVerifierRejectsEmptyFields(t *testing.T) {
	v := NewPaymentVerifier("test-secret")

	assert.ErrorIs(t, v.Verify("", "pay_456", "sig"), ErrPaymentVerificationFailed)
	assert.ErrorIs(t, v.Verify("order_123", "", "sig"), ErrPaymentVerificationFailed)
	assert.ErrorIs(t, v.Verify("order_123", "pay_456", ""), ErrPaymentVerificationFailed)
}
