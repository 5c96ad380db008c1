// Package auth provides credential hashing and session token handling.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// HashPassword returns hex(SHA256(password || salt)).
// Stored credentials use exactly this format; the salt is injected from
// configuration, never embedded here.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword recomputes the salted hash and compares it against the
// stored hash in constant time.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// UserHash derives the non-sequential public identifier for a user from
// the username and the creation instant.
func UserHash(username string, createdAt time.Time) string {
	sum := sha256.Sum256([]byte(username + createdAt.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}
