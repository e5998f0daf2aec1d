package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewIdentityID derives a vault record id from its email plus the creation
// time, matching the historical "<email>-<millis>" format.
func NewIdentityID(email string) string {
	return fmt.Sprintf("%s-%d", email, time.Now().UnixMilli())
}
