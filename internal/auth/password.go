package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt reads at most 72 bytes of input. Both hashing and comparison
// truncate explicitly so the two sides always agree.
const bcryptInputLimit = 72

// HashPassword hashes a plaintext password with the configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncateForBcrypt(plain))
}

func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptInputLimit {
		b = b[:bcryptInputLimit]
	}
	return b
}
