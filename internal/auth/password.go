package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier is the hashing collaborator: hash on registration,
// verify(plaintext, hash) on login. bcrypt with configurable cost.
type PasswordVerifier struct {
	cost int
}

// NewPasswordVerifier builds a verifier with the configured bcrypt cost.
func NewPasswordVerifier(cost int) *PasswordVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordVerifier{cost: cost}
}

// Hash hashes a plaintext password.
func (v *PasswordVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (v *PasswordVerifier) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
