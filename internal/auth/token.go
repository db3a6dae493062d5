// Package auth validates access tokens issued by the external auth service
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator handles JWT access token validation
type TokenValidator struct {
	secret string
}

// NewTokenValidator creates a new token validator
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{
		secret: secret,
	}
}

// ValidateAccessToken validates an access token and returns the user ID from its "user_id" claim,
// falling back to the registered "sub" claim
func (tv *TokenValidator) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tv.secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	// Tokens without a type claim are accepted, refresh tokens are not
	if tokenType, ok := claims["type"].(string); ok && tokenType != "access" {
		return "", fmt.Errorf("token is not an access token")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims["sub"].(string)
	}
	if userID == "" {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
