package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"time"

	"github.com/google/uuid"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/repo"
)

// Key namespaces keep token kinds from being confused for one another.
const (
	refreshPrefix = "refresh:"
	resetPrefix   = "reset:"
	verifyPrefix  = "verify:"

	redeemedMark = "1"

	ResetTokenTTL  = time.Hour
	VerifyTokenTTL = 24 * time.Hour
)

// Issuer mints and redeems the opaque, store-backed tokens. Refresh tokens
// map the nonce to the owning user id; reset and verify tokens are scoped by
// user id in the key and hold a constant marker. A token exists in the store
// exactly as long as it is valid.
type Issuer struct {
	store      repo.TokenStore
	refreshTTL time.Duration
}

func NewIssuer(store repo.TokenStore, refreshTTL time.Duration) *Issuer {
	return &Issuer{store: store, refreshTTL: refreshTTL}
}

func (i *Issuer) IssueRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	id, err := newNonce(32)
	if err != nil {
		return "", err
	}
	if err := i.store.Set(ctx, refreshPrefix+id, userID.String(), i.refreshTTL); err != nil {
		return "", customErrors.WrapInternal(err, "store refresh token")
	}
	return id, nil
}

// ConsumeRefreshToken verifies and revokes in one atomic store operation, so
// two concurrent uses of the same token cannot both pass. The caller reissues
// afterwards; a crash in between invalidates the session rather than leaving
// the old token live.
func (i *Issuer) ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := i.store.GetDel(ctx, refreshPrefix+token)
	switch {
	case customErrors.IsNotFound(err):
		return uuid.Nil, customErrors.ErrInvalidToken
	case err != nil:
		return uuid.Nil, customErrors.WrapInternal(err, "consume refresh token")
	}
	uid, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, customErrors.ErrInvalidToken
	}
	return uid, nil
}

func (i *Issuer) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := i.store.Delete(ctx, refreshPrefix+token); err != nil {
		return customErrors.WrapInternal(err, "revoke refresh token")
	}
	return nil
}

func (i *Issuer) IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	nonce, err := newNonce(32)
	if err != nil {
		return "", err
	}
	key := resetPrefix + userID.String() + ":" + nonce
	if err := i.store.Set(ctx, key, redeemedMark, ResetTokenTTL); err != nil {
		return "", customErrors.WrapInternal(err, "store reset token")
	}
	return nonce, nil
}

// VerifyResetToken redeems the nonce; a second call with the same pair fails.
func (i *Issuer) VerifyResetToken(ctx context.Context, userID uuid.UUID, nonce string) error {
	return i.redeem(ctx, resetPrefix+userID.String()+":"+nonce)
}

func (i *Issuer) IssueVerifyToken(ctx context.Context, userID uuid.UUID) (string, error) {
	nonce, err := newNonce(16)
	if err != nil {
		return "", err
	}
	key := verifyPrefix + userID.String() + ":" + nonce
	if err := i.store.Set(ctx, key, redeemedMark, VerifyTokenTTL); err != nil {
		return "", customErrors.WrapInternal(err, "store verify token")
	}
	return nonce, nil
}

func (i *Issuer) VerifyEmailToken(ctx context.Context, userID uuid.UUID, nonce string) error {
	return i.redeem(ctx, verifyPrefix+userID.String()+":"+nonce)
}

func (i *Issuer) redeem(ctx context.Context, key string) error {
	_, err := i.store.GetDel(ctx, key)
	switch {
	case customErrors.IsNotFound(err):
		return customErrors.ErrInvalidToken
	case err != nil:
		return customErrors.WrapInternal(err, "redeem token")
	}
	return nil
}

func newNonce(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", customErrors.WrapInternal(err, "generate nonce")
	}
	return hex.EncodeToString(b), nil
}
