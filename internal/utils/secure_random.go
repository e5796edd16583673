package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// memberCodeAlphabet deliberately omits look-alike characters (0/O, 1/I/L) so
// codes survive being read over the phone.
const memberCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateMemberCode produces a human-readable referral code like "SN7K2M9QX".
func GenerateMemberCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = memberCodeAlphabet[int(b[i])%len(memberCodeAlphabet)]
	}
	return "SN" + string(b), nil
}
