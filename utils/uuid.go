package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateToken returns an opaque session token derived from a random UUID
func GenerateToken() string {
	id := uuid.New()
	sum := sha256.Sum256(id[:])
	return hex.EncodeToString(sum[:])
}
