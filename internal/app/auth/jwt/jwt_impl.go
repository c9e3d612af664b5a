package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	jwt2 "github.com/bloggerhq/blogger/internal/domain/jwt"
	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

type SignerImpl struct {
	secret    []byte
	accessTTL time.Duration
	issuer    string
	audience  string
}

func NewSigner(cfg *config.Config) (*SignerImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty JWT secret"), "NewSigner")
	}
	return &SignerImpl{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTokenTTL,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}, nil
}

func (s *SignerImpl) GenerateAccessToken(userID uuid.UUID, role model.Role) (string, time.Time, error) {
	now := time.Now()

	claims := jwt2.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (s *SignerImpl) ValidateAccessToken(raw string) (jwt2.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuedAt())

	if err != nil || !token.Valid {
		return jwt2.AccessClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.AccessClaims)
	if !ok {
		return jwt2.AccessClaims{}, customErrors.WrapInternal(
			errors.New("claims not AccessClaims"), "ValidateAccessToken",
		)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return jwt2.AccessClaims{}, customErrors.ErrInvalidToken
	}

	if s.audience != "" {
		okAudi := false
		for _, a := range claims.Audience {
			if a == s.audience {
				okAudi = true
				break
			}
		}
		if !okAudi {
			return jwt2.AccessClaims{}, customErrors.ErrInvalidToken
		}
	}

	return *claims, nil
}
