package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"reviewhub/internal/httpapi/models"

	"golang.org/x/crypto/hkdf"
)

// codeLength keeps codes within the 50-character storage bound while leaving
// 80 bits of entropy.
const codeLength = 40

// ConfirmationCodes derives and verifies the one-time sign-in codes. A code
// is a keyed hash of the user's current identity state, so it is never
// stored: verification recomputes it, and any change to the fingerprinted
// fields silently invalidates codes already sent out.
type ConfirmationCodes struct {
	secret []byte
}

func NewConfirmationCodes(secret string) *ConfirmationCodes {
	return &ConfirmationCodes{secret: []byte(secret)}
}

// CodeFor returns the confirmation code for the user's current state.
func (c *ConfirmationCodes) CodeFor(user *models.User) (string, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, c.secret, []byte(user.ID), []byte("confirmation-code"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return "", fmt.Errorf("derive code key: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(fingerprint(user)))
	code := hex.EncodeToString(mac.Sum(nil))
	return code[:codeLength], nil
}

// Verify recomputes the expected code and compares in constant time.
func (c *ConfirmationCodes) Verify(user *models.User, code string) bool {
	expected, err := c.CodeFor(user)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(code))
}

// fingerprint covers the mutable identity fields a code must be bound to.
func fingerprint(user *models.User) string {
	return strings.Join([]string{user.ID, user.Username, user.Email, user.Role}, "|")
}
