package voucher

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength is the number of characters in a voucher code.
	CodeLength = 12
)

// GenerateCode returns a random voucher code drawn from A-Z and 0-9.
func GenerateCode() (string, error) {
	return GenerateCodeFrom(rand.Reader)
}

// GenerateCodeFrom draws a voucher code from the given entropy source.
func GenerateCodeFrom(src io.Reader) (string, error) {
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(src, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate voucher code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidCode reports whether s looks like a voucher code.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
