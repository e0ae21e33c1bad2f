package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signTestToken(t *testing.T, secret string, claims IdentityClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	verifier := NewTokenVerifier(VerifierConfig{Secret: testSecret, Issuer: "https://id.example.com"})

	tokenString := signTestToken(t, testSecret, IdentityClaims{
		Email:    "user@example.com",
		FullName: "Asha Verma",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider-subject-123",
			Issuer:    "https://id.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.Verify(tokenString)
	require.NoError(t, err)
	require.Equal(t, "provider-subject-123", claims.Subject)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "Asha Verma", claims.FullName)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier(VerifierConfig{Secret: testSecret})

	tokenString := signTestToken(t, testSecret, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider-subject-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenString)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := NewTokenVerifier(VerifierConfig{Secret: testSecret})

	tokenString := signTestToken(t, "some-other-secret", IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider-subject-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	verifier := NewTokenVerifier(VerifierConfig{Secret: testSecret})

	tokenString := signTestToken(t, testSecret, IdentityClaims{
		Email: "nosub@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenString)
	require.ErrorIs(t, err, ErrInvalidClaims)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	verifier := NewTokenVerifier(VerifierConfig{Secret: testSecret, Issuer: "https://id.example.com"})

	tokenString := signTestToken(t, testSecret, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider-subject-123",
			Issuer:    "https://rogue.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		in    string
		first string
		last  string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"Cher", "Cher", ""},
		{"Asha Verma", "Asha", "Verma"},
		{"Juan Carlos de la Vega", "Juan", "Carlos de la Vega"},
		{"  padded   name  ", "padded", "name"},
	}

	for _, tc := range cases {
		first, last := SplitFullName(tc.in)
		require.Equal(t, tc.first, first, "input %q", tc.in)
		require.Equal(t, tc.last, last, "input %q", tc.in)
	}
}
