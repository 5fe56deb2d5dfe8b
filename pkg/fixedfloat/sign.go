package fixedfloat

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signBody computes the hex-encoded HMAC-SHA256 digest of body keyed by
// secret. The digest must cover the exact bytes that go on the wire;
// signing a re-serialized copy would invalidate the signature.
func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
