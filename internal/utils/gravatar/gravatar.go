// Package gravatar builds Gravatar image URLs from e-mail addresses.
//
// The URL is a hex-encoded MD5 of the normalized address; MD5 is part of
// the Gravatar protocol here, not a security primitive.
package gravatar

import (
	"crypto/md5" //nolint:gosec // protocol requirement, not used for security
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	baseURL = "https://www.gravatar.com/avatar"

	// defaults match the avatars users expect from the web client:
	// 200px, PG-rated, "mystery man" fallback.
	size    = "200"
	rating  = "pg"
	missing = "mm"
)

// URL returns the Gravatar URL for the given e-mail address.
// The address is trimmed and lowercased before hashing, per the
// Gravatar spec.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized)) //nolint:gosec
	hash := hex.EncodeToString(sum[:])
	return fmt.Sprintf("%s/%s?s=%s&r=%s&d=%s", baseURL, hash, size, rating, missing)
}
