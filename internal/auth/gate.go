package auth

import (
	"strings"

	apperrors "roster/internal/errors"
)

// BearerPrefix is the exact, case-sensitive scheme prefix of the Authorization header.
const BearerPrefix = "Bearer "

// Identity is the authenticated caller of a protected request.
type Identity struct {
	Subject string
}

// Gate authorizes protected requests from their raw Authorization header.
type Gate struct {
	tokens *JWTService
}

// NewGate creates a gate verifying tokens issued by tokens.
func NewGate(tokens *JWTService) *Gate {
	return &Gate{tokens: tokens}
}

// Authorize returns the caller identity, ErrMissingToken when the header is not
// of the form "Bearer <token>", or ErrInvalidToken when verification fails.
// Expiry is checked as part of verification.
func (g *Gate) Authorize(rawHeader string) (Identity, error) {
	if !strings.HasPrefix(rawHeader, BearerPrefix) {
		return Identity{}, apperrors.ErrMissingToken
	}
	token := rawHeader[len(BearerPrefix):]
	if token == "" {
		return Identity{}, apperrors.ErrMissingToken
	}

	claims, err := g.tokens.ValidateToken(token)
	if err != nil || claims.Subject == "" {
		return Identity{}, apperrors.ErrInvalidToken
	}
	return Identity{Subject: claims.Subject}, nil
}

// BearerHeader formats token the way Authorize expects it.
func BearerHeader(token string) string {
	return BearerPrefix + token
}
