package utils

import (
	"crypto/sha256" // Hash for the avatar name
	"encoding/hex"  // Hex encoding
	"strings"       // Email normalization
)

// AvatarName derives a stable, anonymous image name from an email address:
// the first 12 hex characters of its SHA-256 digest.
func AvatarName(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:12]
}

// DefaultAvatar returns the generated-avatar URL assigned to new accounts
func DefaultAvatar(email string) string {
	return "https://www.gravatar.com/avatar/" + AvatarName(email) + "?s=250&d=identicon"
}
