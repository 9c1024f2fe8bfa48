package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token scopes. Each issued token carries exactly one, and parsing rejects
// a token presented for a different purpose.
const (
	ScopeAccess  = "access_token"  // Authenticates API requests
	ScopeRefresh = "refresh_token" // Obtains a new token pair
	ScopeEmail   = "email_token"   // Confirms an email address
)

// ErrInvalidScope is returned when a token is presented for the wrong purpose
var ErrInvalidScope = errors.New("invalid token scope")

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"` // Custom claim for user ID
	Scope                string `json:"scope"`   // Purpose of the token
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a token for a given user ID with the given scope and lifetime
func GenerateJWT(userID uint, scope, secret string, ttl time.Duration) (string, error) {
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		Scope:  scope,  // Purpose of the token
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(time.Now()),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a token string, requiring the given scope
func ParseJWT(tokenStr, scope, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	// Reject tokens presented for the wrong purpose
	if claims.Scope != scope {
		return nil, ErrInvalidScope
	}
	return claims, nil
}
