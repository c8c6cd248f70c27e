package security

import "golang.org/x/crypto/bcrypt"

var hashCost = bcrypt.DefaultCost

// SetHashCost overrides the bcrypt cost. Called once at startup; tests keep
// the cheaper default.
func SetHashCost(cost int) {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		hashCost = cost
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
