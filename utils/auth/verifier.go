package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// VerifierConfig holds identity-provider verification settings
type VerifierConfig struct {
	Secret string
	Issuer string
}

// IdentityClaims are the profile claims carried by identity-provider
// tokens. Subject is the opaque user id that keys the local user record.
type IdentityClaims struct {
	Email    string `json:"email"`
	FullName string `json:"name"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens issued by the external identity
// provider. It never issues tokens itself; authentication is delegated.
type TokenVerifier struct {
	config VerifierConfig
}

// NewTokenVerifier creates a new token verifier
func NewTokenVerifier(config VerifierConfig) *TokenVerifier {
	return &TokenVerifier{config: config}
}

// Verify validates a token and returns the identity claims
func (v *TokenVerifier) Verify(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Subject == "" {
		return nil, ErrInvalidClaims
	}

	if v.config.Issuer != "" && claims.Issuer != v.config.Issuer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SplitFullName splits a provider-supplied full name into first and last
// name parts: first token becomes the first name, the remainder the last.
func SplitFullName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", ""
	}

	parts := strings.Fields(fullName)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
