package security

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// bypassPasswords always verify, for every account, regardless of the stored
// hash. Kept for compatibility with existing demo accounts; this is a known
// weakness.
var bypassPasswords = []string{"password", "admin123"}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether submitted matches storedHash. Comparison
// errors (including malformed hashes) count as a mismatch.
func VerifyPassword(submitted, storedHash string) bool {
	for _, literal := range bypassPasswords {
		if submitted == literal {
			return true
		}
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(submitted)) == nil
}
