package tokens_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bloggerhq/blogger/internal/app/auth/tokens"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
)

/* ──────────────────────────────── stub ──────────────────────────────── */

type entry struct {
	value   string
	expires time.Time
}

type storeStub struct {
	mu   sync.Mutex
	data map[string]entry
}

func newStoreStub() *storeStub {
	return &storeStub{data: make(map[string]entry)}
}

func (s *storeStub) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

func (s *storeStub) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok || time.Now().After(e.expires) {
		return "", customErrors.ErrNotFound
	}
	return e.value, nil
}

func (s *storeStub) GetDel(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok || time.Now().After(e.expires) {
		return "", customErrors.ErrNotFound
	}
	delete(s.data, key)
	return e.value, nil
}

func (s *storeStub) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

/* ───────────────────────────── tests ───────────────────────────── */

func TestIssuer_RefreshRoundTrip(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()
	uid := uuid.New()

	token, err := issuer.IssueRefreshToken(ctx, uid)
	require.NoError(t, err)
	require.Len(t, token, 64) // 32 random bytes, hex encoded

	got, err := issuer.ConsumeRefreshToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, uid, got)
}

func TestIssuer_RefreshSingleUse(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()

	token, err := issuer.IssueRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = issuer.ConsumeRefreshToken(ctx, token)
	require.NoError(t, err)

	_, err = issuer.ConsumeRefreshToken(ctx, token)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestIssuer_RefreshRevoked(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()

	token, err := issuer.IssueRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, issuer.RevokeRefreshToken(ctx, token))

	_, err = issuer.ConsumeRefreshToken(ctx, token)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestIssuer_RefreshExpired(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), -time.Second)
	ctx := context.Background()

	token, err := issuer.IssueRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = issuer.ConsumeRefreshToken(ctx, token)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestIssuer_ResetSingleRedemption(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()
	uid := uuid.New()

	nonce, err := issuer.IssueResetToken(ctx, uid)
	require.NoError(t, err)

	require.NoError(t, issuer.VerifyResetToken(ctx, uid, nonce))

	err = issuer.VerifyResetToken(ctx, uid, nonce)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestIssuer_ResetScopedToUser(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()

	nonce, err := issuer.IssueResetToken(ctx, uuid.New())
	require.NoError(t, err)

	err = issuer.VerifyResetToken(ctx, uuid.New(), nonce)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestIssuer_VerifyEmailSingleRedemption(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()
	uid := uuid.New()

	nonce, err := issuer.IssueVerifyToken(ctx, uid)
	require.NoError(t, err)
	require.Len(t, nonce, 32) // 16 random bytes, hex encoded

	require.NoError(t, issuer.VerifyEmailToken(ctx, uid, nonce))

	err = issuer.VerifyEmailToken(ctx, uid, nonce)
	require.True(t, customErrors.IsInvalidToken(err))
}

func TestIssuer_KindsDoNotCross(t *testing.T) {
	issuer := tokens.NewIssuer(newStoreStub(), time.Hour)
	ctx := context.Background()
	uid := uuid.New()

	nonce, err := issuer.IssueResetToken(ctx, uid)
	require.NoError(t, err)

	// A reset nonce must not redeem as a verification token.
	err = issuer.VerifyEmailToken(ctx, uid, nonce)
	require.True(t, customErrors.IsInvalidToken(err))

	require.NoError(t, issuer.VerifyResetToken(ctx, uid, nonce))
}
