package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns hex(HMAC-SHA256(secret, providerOrderID+"|"+paymentID)),
// the scheme both gateways use for payment callback signatures.
func ComputeSignature(secret, providerOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a callback signature in constant time. The supplied
// value must match the hex digest byte for byte; no normalization.
func VerifySignature(secret, providerOrderID, paymentID, signature string) bool {
	expected := ComputeSignature(secret, providerOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
