package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenIssuer(key []byte, exp time.Duration) *TokenIssuer {
	return &TokenIssuer{auth: jwtauth.New("HS256", key, nil), exp: exp}
}

// Auth exposes the underlying verifier for jwtauth middleware.
func (t *TokenIssuer) Auth() *jwtauth.JWTAuth {
	return t.auth
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.exp
}

func (t *TokenIssuer) GenerateToken(username, sessionID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"sid":      sessionID,
		"exp":      now.Add(t.exp).Unix(),
		"iat":      now.Unix(),
	}
	_, tokenString, err := t.auth.Encode(claims)
	return tokenString, err
}

func GetUsernameFromClaims(claims jwt.MapClaims) (string, error) {
	name, ok := claims["username"].(string)
	if !ok || name == "" {
		return "", errors.New("username claim is missing or not a string")
	}
	return name, nil
}

func GetSessionIDFromClaims(claims jwt.MapClaims) (string, error) {
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("sid claim is missing or not a string")
	}
	return sid, nil
}
