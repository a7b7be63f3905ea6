package jwtutil

import (
	"errors"
	"time"

	"hotel-booking-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies user tokens. It is constructed from the JWT
// configuration; the signing key is never read from package state.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// New creates an Issuer from the JWT configuration
func New(cfg *config.JWTConfig) *Issuer {
	return &Issuer{
		key: []byte(cfg.SigningKey),
		ttl: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// Generate creates a signed JWT token carrying the user identity
func (i *Issuer) Generate(userID uint, username, role string) (string, error) {
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// Validate parses the token and returns its claims. The signature is
// verified before any claim is trusted.
func (i *Issuer) Validate(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.key, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
