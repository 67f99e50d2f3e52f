package jwthelper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Principal is whoever a session token was issued to: a volunteer, or a
// user with a role.
type Principal struct {
	ID   uint   `json:"id"`
	Kind string `json:"kind"`
	Role string `json:"role"`
}

type Claims struct {
	Kind      string `json:"knd"`
	Role      string `json:"rol"`
	UserAgent string `json:"ua,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(key []byte, p Principal, userAgent string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind:      p.Kind,
		Role:      p.Role,
		UserAgent: userAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwt.SignedString -> %w", err)
	}

	return token, nil
}

func ParseToken(key []byte, tokenString string) (Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return Principal{
		ID:   uint(id),
		Kind: claims.Kind,
		Role: claims.Role,
	}, nil
}
