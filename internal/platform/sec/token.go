// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a URL-safe opaque token built from
// byteLength bytes of cryptographically secure randomness.
//
// # Usage
//
// Session tokens and password-reset tokens are both generated through this
// function. The raw value is handed to the client exactly once; storage
// layers persist only its [HashToken] digest.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a bearer token.
//
// Tokens are high-entropy random values, so a fast unsalted hash is
// sufficient here; bcrypt is reserved for low-entropy passwords.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
