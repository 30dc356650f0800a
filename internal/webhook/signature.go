package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature authenticates a delivery body against the shared secret.
// The expected signature is base64(HMAC-SHA256(secret, body)) and must match
// the value supplied in the signature header. The comparison runs in constant
// time, and the body must be the raw bytes exactly as received: any
// re-encoding breaks signature stability.
func VerifySignature(body []byte, signature, secret string) error {
	if signature == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign computes the delivery signature for a body. Used by tooling and tests
// to produce deliveries the verifier accepts.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
