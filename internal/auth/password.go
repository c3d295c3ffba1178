package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted, cost-parameterized one-way hash. The cost
// is embedded in the hash itself, so verification keeps working for hashes
// produced under earlier cost settings.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash. Malformed hashes
// simply fail the check.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
