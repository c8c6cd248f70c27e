package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var (
	TokenAuth *jwtauth.JWTAuth
	tokenExp  time.Duration
)

func InitJWT(key []byte, exp time.Duration) {
	TokenAuth = jwtauth.New("HS256", key, nil)
	tokenExp = exp
}

// GenerateToken issues a signed bearer token carrying the user's id. The
// token is the only claim source; the user row is re-fetched on every
// request, so role and active state are never embedded.
func GenerateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// GetUserIDFromClaims extracts the user id claim. Verified claims come back
// from the JSON layer as float64 or json.Number depending on the decoder.
func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, errors.New("user_id claim is missing or not a number")
	}
}
