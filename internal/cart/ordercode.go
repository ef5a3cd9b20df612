package cart

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	orderCodePrefix   = "ORD-"
	orderCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderCodeLength   = 6
)

// NewOrderCode generates a fresh human-typable order code (ORD-XXXXXX).
func NewOrderCode() (string, error) {
	buf := make([]byte, orderCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating order code: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderCodeAlphabet[int(b)%len(orderCodeAlphabet)]
	}
	return orderCodePrefix + string(buf), nil
}

// NormalizeOrderCode upper-cases and trims a user-entered code so lookups are
// case-insensitive.
func NormalizeOrderCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
