package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrPaymentVerificationFailed signals a gateway signature mismatch.
var ErrPaymentVerificationFailed = errors.New("payment verification failed")

// PaymentVerifier checks gateway callback signatures. The gateway signs
// "<orderRef>|<paymentRef>" with HMAC-SHA256 using the shared key secret and
// sends the hex digest alongside the payment reference.
type PaymentVerifier struct {
	secret string
}

// NewPaymentVerifier constructs a PaymentVerifier for the given shared secret.
func NewPaymentVerifier(secret string) *PaymentVerifier {
	return &PaymentVerifier{secret: secret}
}

// Verify recomputes the expected signature and requires an exact match.
func (v *PaymentVerifier) Verify(orderRef, paymentRef, signature string) error {
	if orderRef == "" || paymentRef == "" || signature == "" {
		return ErrPaymentVerificationFailed
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrPaymentVerificationFailed
	}
	return nil
}

// Sign produces the signature the gateway would send for the given
// references. Exposed for the sandbox checkout helper and tests.
func (v *PaymentVerifier) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
