package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/jwt"
	"github.com/bloggerhq/blogger/internal/domain/model"
)

const (
	identityKey = "auth.identity"
	userKey     = "auth.user"

	bearerPrefix = "Bearer "
)

// Identity is the minimal authenticated principal extracted from the access
// token, available before any database round-trip.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// UserLoader hydrates an Identity into the full account record.
type UserLoader interface {
	GetUser(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// Guard requires a valid "Bearer" access token. Requests without one are
// rejected with 401 before the handler runs.
func Guard(signer jwt.TokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identityFromHeader(c, signer)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// GuardOptional extracts an identity when a valid token is present and
// otherwise lets the request through anonymous. A malformed or expired token
// is treated the same as no token at all.
func GuardOptional(signer jwt.TokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := identityFromHeader(c, signer); err == nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// Hydrate loads the full user record for the current identity. Must run after
// Guard. A missing account means the token outlived the user, so 401.
func Hydrate(loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			abortUnauthorized(c, customErrors.ErrUnauthenticated)
			return
		}
		u, err := loader.GetUser(c.Request.Context(), id.UserID)
		if err != nil {
			abortUnauthorized(c, customErrors.ErrInvalidToken)
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// HydrateOptional hydrates when an identity exists and stays silent otherwise.
func HydrateOptional(loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := IdentityFrom(c); ok {
			if u, err := loader.GetUser(c.Request.Context(), id.UserID); err == nil {
				c.Set(userKey, u)
			}
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func UserFrom(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	u, ok := v.(model.User)
	return u, ok
}

func identityFromHeader(c *gin.Context, signer jwt.TokenSigner) (Identity, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return Identity{}, customErrors.ErrUnauthenticated
	}

	claims, err := signer.ValidateAccessToken(header[len(bearerPrefix):])
	if err != nil {
		return Identity{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, customErrors.ErrInvalidToken
	}
	return Identity{UserID: uid, Role: claims.Role}, nil
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": err.Error(),
	})
}
