package http

import (
	"context"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	jwtimpl "github.com/bloggerhq/blogger/internal/app/auth/jwt"
	"github.com/bloggerhq/blogger/internal/app/notify"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

// authServiceStub lets each test wire only the calls it expects.
type authServiceStub struct {
	register         func(dto.RegisterDTO) (model.TokenPair, error)
	login            func(dto.LoginDTO, model.LoginContext) (model.TokenPair, error)
	refresh          func(string) (model.TokenPair, error)
	logout           func(string) error
	changePassword   func(uuid.UUID, dto.ChangePasswordDTO) error
	forgotPassword   func(dto.ForgotPasswordDTO) error
	resetPassword    func(uuid.UUID, string, dto.ResetPasswordDTO) error
	sendVerification func(uuid.UUID) error
	verifyEmail      func(uuid.UUID, string) error
	getUser          func(uuid.UUID) (model.User, error)
	updateProfile    func(uuid.UUID, dto.UpdateProfileDTO) (model.User, error)
	deleteAccount    func(uuid.UUID, string) error
}

func (s *authServiceStub) Register(_ context.Context, d dto.RegisterDTO) (model.TokenPair, error) {
	return s.register(d)
}

func (s *authServiceStub) Login(_ context.Context, d dto.LoginDTO, lc model.LoginContext) (model.TokenPair, error) {
	return s.login(d, lc)
}

func (s *authServiceStub) Refresh(_ context.Context, token string) (model.TokenPair, error) {
	return s.refresh(token)
}

func (s *authServiceStub) Logout(_ context.Context, token string) error {
	return s.logout(token)
}

func (s *authServiceStub) ChangePassword(_ context.Context, id uuid.UUID, d dto.ChangePasswordDTO) error {
	return s.changePassword(id, d)
}

func (s *authServiceStub) ForgotPassword(_ context.Context, d dto.ForgotPasswordDTO) error {
	return s.forgotPassword(d)
}

func (s *authServiceStub) ResetPassword(_ context.Context, uid uuid.UUID, nonce string, d dto.ResetPasswordDTO) error {
	return s.resetPassword(uid, nonce, d)
}

func (s *authServiceStub) SendVerification(_ context.Context, id uuid.UUID) error {
	return s.sendVerification(id)
}

func (s *authServiceStub) VerifyEmail(_ context.Context, uid uuid.UUID, nonce string) error {
	return s.verifyEmail(uid, nonce)
}

func (s *authServiceStub) GetUser(_ context.Context, id uuid.UUID) (model.User, error) {
	return s.getUser(id)
}

func (s *authServiceStub) UpdateProfile(_ context.Context, id uuid.UUID, d dto.UpdateProfileDTO) (model.User, error) {
	return s.updateProfile(id, d)
}

func (s *authServiceStub) DeleteAccount(_ context.Context, id uuid.UUID, token string) error {
	return s.deleteAccount(id, token)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:             "development",
		ClientOrigin:    "https://blog.example.com",
		JWTSecret:       "handler-test-secret-handler-test",
		Issuer:          "blogger-test",
		Audience:        "blogger-client",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

func testRouter(t *testing.T, cfg *config.Config, auth *authServiceStub, blog *blogServiceStub) (*gin.Engine, *jwtimpl.SignerImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signer, err := jwtimpl.NewSigner(cfg)
	require.NoError(t, err)

	resolver := notify.NewContextResolver("", zap.NewNop())
	return NewRouter(cfg, zap.NewNop(), signer, auth, blog, resolver), signer
}

func samplePair(uid uuid.UUID) model.TokenPair {
	return model.TokenPair{
		AccessToken:  "Bearer header.payload.sig",
		RefreshToken: "abcdef0123456789",
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   30 * 24 * time.Hour,
		UserID:       uid,
	}
}

func bearerFor(t *testing.T, signer *jwtimpl.SignerImpl, uid uuid.UUID) string {
	t.Helper()
	token, _, err := signer.GenerateAccessToken(uid, model.RoleUser)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRegisterEndpoint(t *testing.T) {
	uid := uuid.New()
	auth := &authServiceStub{
		register: func(d dto.RegisterDTO) (model.TokenPair, error) {
			require.Equal(t, "alice@example.com", d.Email)
			return samplePair(uid), nil
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/register").
		JSON(`{"name":"Alice","email":"alice@example.com","password":"Sup3r$trong"}`).
		Expect(t).
		Status(nethttp.StatusCreated).
		CookiePresent("jid").
		Assert(jsonpath.Equal("$.success", true)).
		Assert(jsonpath.Equal("$.accessToken", "Bearer header.payload.sig")).
		Assert(jsonpath.Equal("$.userId", uid.String())).
		End()
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	auth := &authServiceStub{
		register: func(dto.RegisterDTO) (model.TokenPair, error) {
			return model.TokenPair{}, customErrors.ErrAlreadyExists
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/register").
		JSON(`{"name":"Alice","email":"alice@example.com","password":"Sup3r$trong"}`).
		Expect(t).
		Status(nethttp.StatusBadRequest).
		Assert(jsonpath.Equal("$.success", false)).
		Assert(jsonpath.Equal("$.message", "email already in use")).
		End()
}

func TestRegisterEndpointMalformedBody(t *testing.T) {
	r, _ := testRouter(t, testConfig(), &authServiceStub{}, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/register").
		JSON(`{"name":`).
		Expect(t).
		Status(nethttp.StatusBadRequest).
		Assert(jsonpath.Equal("$.success", false)).
		End()
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	auth := &authServiceStub{
		login: func(dto.LoginDTO, model.LoginContext) (model.TokenPair, error) {
			return model.TokenPair{}, customErrors.ErrInvalidCredentials
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/login").
		JSON(`{"email":"alice@example.com","password":"wrong"}`).
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "invalid credentials")).
		End()
}

func TestErrorStackOnlyOutsideProduction(t *testing.T) {
	auth := &authServiceStub{
		login: func(dto.LoginDTO, model.LoginContext) (model.TokenPair, error) {
			return model.TokenPair{}, customErrors.ErrInvalidCredentials
		},
	}

	dev := testConfig()
	r, _ := testRouter(t, dev, auth, &blogServiceStub{})
	apitest.Handler(r).
		Post("/api/auth/login").
		JSON(`{"email":"a@b.c","password":"x"}`).
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		Assert(jsonpath.Present("$.stack")).
		End()

	prod := testConfig()
	prod.Env = "production"
	r, _ = testRouter(t, prod, auth, &blogServiceStub{})
	apitest.Handler(r).
		Post("/api/auth/login").
		JSON(`{"email":"a@b.c","password":"x"}`).
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		Assert(jsonpath.NotPresent("$.stack")).
		End()
}

func TestRefreshEndpoint(t *testing.T) {
	uid := uuid.New()
	auth := &authServiceStub{
		refresh: func(token string) (model.TokenPair, error) {
			require.Equal(t, "old-refresh-token", token)
			return samplePair(uid), nil
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	// without the cookie the request never reaches the service
	apitest.Handler(r).
		Post("/api/auth/refresh").
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		End()

	apitest.Handler(r).
		Post("/api/auth/refresh").
		Cookie("jid", "old-refresh-token").
		Expect(t).
		Status(nethttp.StatusOK).
		CookiePresent("jid").
		Assert(jsonpath.Equal("$.userId", uid.String())).
		End()
}

func TestRefreshEndpointConsumedToken(t *testing.T) {
	auth := &authServiceStub{
		refresh: func(string) (model.TokenPair, error) {
			return model.TokenPair{}, customErrors.ErrInvalidToken
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/refresh").
		Cookie("jid", "stolen-or-stale").
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "invalid or expired token")).
		End()
}

func TestLogoutEndpointClearsCookie(t *testing.T) {
	var revoked string
	auth := &authServiceStub{
		logout: func(token string) error {
			revoked = token
			return nil
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/logout").
		Cookie("jid", "current-token").
		Expect(t).
		Status(nethttp.StatusOK).
		Assert(jsonpath.Equal("$.success", true)).
		End()

	require.Equal(t, "current-token", revoked)
}

func TestForgotPasswordEndpointAlwaysSucceeds(t *testing.T) {
	auth := &authServiceStub{
		forgotPassword: func(dto.ForgotPasswordDTO) error { return nil },
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/forgot-password").
		JSON(`{"email":"nobody@example.com"}`).
		Expect(t).
		Status(nethttp.StatusOK).
		Assert(jsonpath.Equal("$.success", true)).
		End()
}

func TestResetPasswordEndpoint(t *testing.T) {
	uid := uuid.New()
	auth := &authServiceStub{
		resetPassword: func(gotUID uuid.UUID, nonce string, d dto.ResetPasswordDTO) error {
			require.Equal(t, uid, gotUID)
			require.Equal(t, "nonce123", nonce)
			require.Equal(t, "N3w$tronger", d.NewPassword)
			return nil
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/reset-password").
		Query("uid", uid.String()).
		Query("token", "nonce123").
		JSON(`{"newPassword":"N3w$tronger"}`).
		Expect(t).
		Status(nethttp.StatusOK).
		End()

	// garbage uid is just an invalid token
	apitest.Handler(r).
		Post("/api/auth/reset-password").
		Query("uid", "not-a-uuid").
		Query("token", "nonce123").
		JSON(`{"newPassword":"N3w$tronger"}`).
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		End()
}

func TestSendVerificationEndpointGuarded(t *testing.T) {
	uid := uuid.New()
	var called uuid.UUID
	auth := &authServiceStub{
		sendVerification: func(id uuid.UUID) error {
			called = id
			return nil
		},
	}
	r, signer := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/send-verification").
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		End()

	apitest.Handler(r).
		Post("/api/auth/send-verification").
		Header("Authorization", bearerFor(t, signer, uid)).
		Expect(t).
		Status(nethttp.StatusOK).
		End()

	require.Equal(t, uid, called)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	uid := uuid.New()
	auth := &authServiceStub{
		verifyEmail: func(gotUID uuid.UUID, nonce string) error {
			if gotUID != uid || nonce != "good" {
				return customErrors.ErrInvalidToken
			}
			return nil
		},
	}
	r, _ := testRouter(t, testConfig(), auth, &blogServiceStub{})

	apitest.Handler(r).
		Post("/api/auth/verify-email").
		Query("uid", uid.String()).
		Query("token", "good").
		Expect(t).
		Status(nethttp.StatusOK).
		End()

	apitest.Handler(r).
		Post("/api/auth/verify-email").
		Query("uid", uid.String()).
		Query("token", "spent").
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		End()
}

func TestProfileEndpoints(t *testing.T) {
	uid := uuid.New()
	user := model.User{ID: uid, Email: "alice@example.com", Name: "Alice", Role: model.RoleUser}
	auth := &authServiceStub{
		getUser: func(id uuid.UUID) (model.User, error) {
			require.Equal(t, uid, id)
			return user, nil
		},
		changePassword: func(id uuid.UUID, d dto.ChangePasswordDTO) error {
			if d.OldPassword != "Sup3r$trong" {
				return customErrors.ErrIncorrectOldPassword
			}
			return nil
		},
	}
	r, signer := testRouter(t, testConfig(), auth, &blogServiceStub{})
	token := bearerFor(t, signer, uid)

	apitest.Handler(r).
		Get("/api/me/profile").
		Expect(t).
		Status(nethttp.StatusUnauthorized).
		End()

	apitest.Handler(r).
		Get("/api/me/profile").
		Header("Authorization", token).
		Expect(t).
		Status(nethttp.StatusOK).
		Assert(jsonpath.Equal("$.user.email", "alice@example.com")).
		Assert(jsonpath.NotPresent("$.user.passwordHash")).
		End()

	apitest.Handler(r).
		Put("/api/me/password").
		Header("Authorization", token).
		JSON(`{"oldPassword":"Wrong$one1","newPassword":"N3w$tronger"}`).
		Expect(t).
		Status(nethttp.StatusBadRequest).
		Assert(jsonpath.Equal("$.message", "old password is incorrect")).
		End()

	apitest.Handler(r).
		Put("/api/me/password").
		Header("Authorization", token).
		JSON(`{"oldPassword":"Sup3r$trong","newPassword":"N3w$tronger"}`).
		Expect(t).
		Status(nethttp.StatusOK).
		End()
}
