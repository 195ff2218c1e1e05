package pkg

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, errors.New("missing JWT_SECRET")
}

// CreateToken issues the session JWT returned on signup and login.
func CreateToken(userID uint, role string) (string, error) {
	sec, err := secret()
	if err != nil {
		return "", err
	}
	claims := sessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sec)
}

// ParseToken validates a session JWT and returns its subject.
func ParseToken(tokenStr string) (uint, string, error) {
	sec, err := secret()
	if err != nil {
		return 0, "", err
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sec, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.UserID == 0 {
		return 0, "", errors.New("invalid claims")
	}
	return claims.UserID, claims.Role, nil
}
