package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bloggerhq/blogger/internal/domain/model"
)

// AccessClaims is the payload of the stateless access token. Subject carries
// the user id; everything else about the user is re-fetched from storage.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role,omitempty"`
}

// TokenSigner issues and validates signed access tokens. It is stateless:
// validity is purely a function of signature and expiry.
type TokenSigner interface {
	GenerateAccessToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, err error)

	ValidateAccessToken(raw string) (AccessClaims, error)
}
