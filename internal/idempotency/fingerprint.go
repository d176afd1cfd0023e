package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint computes a canonical digest of a JSON request body. The body is
// decoded and re-encoded so that key order and insignificant whitespace do not
// change the digest; two retries carrying semantically equal JSON always
// fingerprint identically.
func Fingerprint(body []byte) (string, error) {
	canonical := body
	if len(body) > 0 {
		var decoded interface{}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return "", fmt.Errorf("request body is not valid JSON: %w", err)
		}
		encoded, err := json.Marshal(decoded)
		if err != nil {
			return "", fmt.Errorf("failed to canonicalize request body: %w", err)
		}
		canonical = encoded
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
