// Package webhook verifies the authenticity of inbound webhook requests.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// VerifySignature checks a claimed base64-encoded HMAC-SHA256 signature
// against the raw request bytes under the shared secret. The comparison is
// constant time. A missing or malformed claimed signature is simply not
// verified; this never returns an error.
//
// The body must be the exact bytes as received. Re-serializing a parsed
// document changes the byte stream and invalidates the check.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	claimed, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	return subtle.ConstantTimeCompare(claimed, expected) == 1
}

// Sign computes the base64-encoded HMAC-SHA256 signature of body under
// secret. Used by tests and local tooling to produce valid signatures.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
