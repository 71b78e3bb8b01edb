package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionTokenBytes gives tokens 256 bits of entropy.
const sessionTokenBytes = 32

// NewSessionToken returns a random 64-character hex session token.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
