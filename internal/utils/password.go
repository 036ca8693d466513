package utils

import "golang.org/x/crypto/bcrypt"

// NormalizeCost clamps a configured bcrypt cost into the range the library
// accepts. BCRYPT_COST comes straight from the environment, and a typo there
// should degrade to the default cost rather than make every registration
// fail.
func NormalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// HashPassword derives the bcrypt digest stored in users.password_hash.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), NormalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored digest. A corrupt
// digest and a wrong password are indistinguishable here; login treats both
// as invalid credentials.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
