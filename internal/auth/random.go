package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const sessionTokenBytes = 32

// NewSessionToken returns a cryptographically random opaque session token.
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewNumericCode returns a fixed-length numeric one-time code. Leading zeros
// are preserved.
func NewNumericCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(10)
	code := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		digit, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code = append(code, byte('0'+digit.Int64()))
	}
	return string(code), nil
}

// FormatCodeTTL renders a code validity window for notification payloads.
func FormatCodeTTL(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
}
