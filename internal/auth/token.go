package auth

import "github.com/google/uuid"

// GenerateToken returns a fresh opaque bearer token. Tokens are unstructured
// strings; validity comes solely from the token store lookup.
func GenerateToken() string {
	return uuid.NewString()
}
