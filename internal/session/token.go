package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const localIssuer = "casedesk-console"

// Claims carried by locally issued session tokens
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// LocalTokens issues tokens for sessions the backend never authenticated
// (client-side credential checks and demo accounts).
type LocalTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewLocalTokens creates a token issuer
func NewLocalTokens(secret string, ttl time.Duration) *LocalTokens {
	return &LocalTokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for s
func (t *LocalTokens) Issue(s models.Session) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    localIssuer,
			Subject:   s.UserID.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks a locally issued token's signature and expiry
func (t *LocalTokens) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(localIssuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ExpiryOf reads the exp claim without verifying the signature; the backend
// owns verification of its own tokens. Opaque tokens report no expiry.
func ExpiryOf(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
