package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by Verify for any token that cannot be
// accepted: bad signature, wrong algorithm, expired, or a subject that is
// not a user id. The cause is not distinguished to the caller.
var ErrInvalidToken = errors.New("invalid token")

// Verifier checks bearer tokens issued by the authentication provider.
// Implementations must treat verification failures as ErrInvalidToken.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// JWTVerifier verifies HS256 tokens whose subject claim carries the user id.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a Verifier for tokens signed with the given shared
// secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token and returns the caller identity.
// Expiry and not-before claims are enforced by the jwt library defaults.
func (v *JWTVerifier) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return Identity{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	return Identity{UserID: userID}, nil
}
