package services

import (
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService checks the ?token= parameter against a static token and,
// when a secret is configured, against HS256 JWTs issued by this server.
type AuthService struct {
	staticToken string
	secretKey   string
	tokenExpiry time.Duration
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

// NewAuthService creates the token checker. Both values empty disables auth.
func NewAuthService(staticToken, secretKey string, tokenExpiry time.Duration) *AuthService {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey != "" && len(secretKey) < 32 {
		log.Printf("[AUTH] Warning: JWT secret is only %d bytes. Recommended minimum is 32 bytes for HMAC-SHA256", len(secretKey))
	}
	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	return &AuthService{
		staticToken: staticToken,
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
	}
}

// Enabled reports whether requests must carry a token
func (a *AuthService) Enabled() bool {
	return a.staticToken != "" || a.secretKey != ""
}

// Check reports whether token grants access
func (a *AuthService) Check(token string) bool {
	if !a.Enabled() {
		return true
	}
	if token == "" {
		return false
	}
	if a.staticToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.staticToken)) == 1 {
		return true
	}
	if a.secretKey != "" {
		if _, err := a.ValidateToken(token); err == nil {
			return true
		}
	}
	return false
}

// GenerateToken creates a signed JWT for a named client
func (a *AuthService) GenerateToken(clientName string) (string, error) {
	if a.secretKey == "" {
		return "", fmt.Errorf("jwt secret not configured")
	}

	now := time.Now()
	claims := CustomClaims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "vnwidget-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secretKey))
}

// ValidateToken verifies and parses a JWT token
func (a *AuthService) ValidateToken(tokenString string) (*CustomClaims, error) {
	if a.secretKey == "" {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
