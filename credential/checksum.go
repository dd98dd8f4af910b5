package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Checksum computes the authentication code for one command and token,
// keyed by the broker secret: hex(HMAC-SHA256(secret, command + ":" + token)).
func Checksum(secret string, command Command, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(string(command) + ":" + token))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal reports whether two checksums match, using a constant-time
// comparison.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
