package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint hashes a session token so audit entries can be correlated to a
// token without the log ever holding the token itself.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
