package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pinglab/pingboard/config"
)

// TokenTTL is the fixed validity window for issued session tokens.
const TokenTTL = 24 * time.Hour

// Claims defines the JWT claims carried by a session token.
type Claims struct {
	UserNo uint   `json:"user_no"`
	Role   string `json:"user_role"`
	Grade  string `json:"user_grade"`
	jwt.RegisteredClaims
}

// GenerateToken issues a JWT for the given user identity, valid for TokenTTL.
func GenerateToken(userNo uint, role, grade string) (string, error) {
	cfg := config.Get()

	claims := Claims{
		UserNo: userNo,
		Role:   role,
		Grade:  grade,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
