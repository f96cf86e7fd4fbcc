package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionValidity is how long an issued session token stays valid. Tokens
// are stateless and self-expiring; there is no revocation list, so logout
// is a client-side discard.
const sessionValidity = 7 * 24 * time.Hour

// jwtSecret is the process-wide signing secret, set once at startup from
// config and read-only afterwards.
var jwtSecret []byte

// issueToken signs a session token asserting the given email for the
// standard validity window.
func issueToken(email string) (string, error) {
	return issueTokenExpiring(email, sessionValidity)
}

func issueTokenExpiring(email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// verifyToken checks signature and expiry and returns the subject email.
// Expired tokens fail with ErrTokenExpired; anything else wrong with the
// token (bad signature, wrong method, garbage input) is ErrTokenInvalid.
func verifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", ErrTokenInvalid
	}
	return email, nil
}
