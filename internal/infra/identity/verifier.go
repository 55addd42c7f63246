// Package identity verifies bearer tokens issued by the external identity
// provider. The provider owns registration, login and credential storage;
// this service only checks the signature and extracts the owner identity.
package identity

import (
	"fmt"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the custom claims carried by provider-issued access tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens against the shared provider secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a token verifier.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify checks the token signature, issuer and expiry, and returns the
// identity it encodes. The subject claim is the stable owner identifier.
func (v *Verifier) Verify(tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}
	if claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{Message: "token missing subject"}
	}

	return &domain.Identity{OwnerID: claims.Subject, Email: claims.Email}, nil
}
