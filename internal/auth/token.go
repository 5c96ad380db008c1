package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// ErrInvalidToken covers every token rejection: malformed, tampered,
// expired or missing claims. One error keeps auth failures uniform.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer creates and validates PASETO v4.local session tokens.
// A token is an opaque bearer string that resolves to a username.
type TokenIssuer struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewTokenIssuer builds an issuer from a 32-byte symmetric key.
func NewTokenIssuer(key []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("token key must be 32 bytes, got %d", len(key))
	}

	symmetric, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("build symmetric key: %w", err)
	}

	return &TokenIssuer{key: symmetric, ttl: ttl}, nil
}

// Issue creates a session token for the given username.
func (i *TokenIssuer) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("username is required")
	}

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(i.ttl))
	token.SetString("username", username)

	return token.V4Encrypt(i.key, nil), nil
}

// Verify parses and validates a token, returning the username it carries.
func (i *TokenIssuer) Verify(tokenStr string) (string, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(i.key, tokenStr, nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	username, err := token.GetString("username")
	if err != nil || username == "" {
		return "", ErrInvalidToken
	}

	return username, nil
}
