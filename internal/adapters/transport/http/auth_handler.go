package http

import (
	"crypto/sha256"
	"fmt"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	"github.com/bloggerhq/blogger/internal/adapters/transport/http/middleware"
	authsvc "github.com/bloggerhq/blogger/internal/app/auth/service"
	"github.com/bloggerhq/blogger/internal/app/notify"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

const refreshCookie = "jid"

// cookiePath scopes the refresh cookie so it rides along only on auth routes.
const cookiePath = "/api/auth"

type AuthHandler struct {
	svc      authsvc.Service
	resolver *notify.ContextResolver
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthHandler(svc authsvc.Service, resolver *notify.ContextResolver, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, resolver: resolver, cfg: cfg, log: log}
}

func (h *AuthHandler) Register(r gin.IRouter, guard gin.HandlerFunc) {
	auth := r.Group(cookiePath)

	auth.POST("/register", func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		h.log.Info("/register", zap.String("user", emailDigest(body.Email)))

		pair, err := h.svc.Register(c.Request.Context(), body)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		h.issuePair(c, pair, true)
	})

	auth.POST("/login", func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		h.log.Info("/login", zap.String("user", emailDigest(body.Email)))

		lc := h.resolver.Resolve(c.ClientIP(), c.GetHeader("User-Agent"))
		pair, err := h.svc.Login(c.Request.Context(), body, lc)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		h.issuePair(c, pair, false)
	})

	auth.POST("/refresh", func(c *gin.Context) {
		token, err := c.Cookie(refreshCookie)
		if err != nil {
			handleError(c, h.cfg, customErrors.ErrUnauthenticated)
			return
		}
		pair, err := h.svc.Refresh(c.Request.Context(), token)
		if err != nil {
			h.clearRefreshCookie(c)
			handleError(c, h.cfg, err)
			return
		}
		h.issuePair(c, pair, false)
	})

	auth.POST("/logout", func(c *gin.Context) {
		token, _ := c.Cookie(refreshCookie)
		if err := h.svc.Logout(c.Request.Context(), token); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		h.clearRefreshCookie(c)
		ok(c, gin.H{"message": "logged out"})
	})

	auth.POST("/forgot-password", func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		if err := h.svc.ForgotPassword(c.Request.Context(), body); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "if the account exists, a reset link has been sent"})
	})

	auth.POST("/reset-password", func(c *gin.Context) {
		uid, nonce, err := tokenQuery(c)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		if err := h.svc.ResetPassword(c.Request.Context(), uid, nonce, body); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "password has been reset"})
	})

	auth.POST("/send-verification", guard, func(c *gin.Context) {
		id, _ := middleware.IdentityFrom(c)
		if err := h.svc.SendVerification(c.Request.Context(), id.UserID); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "verification email sent"})
	})

	auth.POST("/verify-email", func(c *gin.Context) {
		uid, nonce, err := tokenQuery(c)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		if err := h.svc.VerifyEmail(c.Request.Context(), uid, nonce); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "email verified"})
	})
}

// issuePair sets the jid cookie and writes the token envelope. Registration
// answers 201, everything else 200.
func (h *AuthHandler) issuePair(c *gin.Context, pair model.TokenPair, isNew bool) {
	c.SetSameSite(nethttp.SameSiteStrictMode)
	c.SetCookie(
		refreshCookie,
		pair.RefreshToken,
		int(pair.RefreshTTL.Seconds()),
		cookiePath,
		h.cfg.CookieDomain,
		!h.cfg.IsDevelopment(),
		true,
	)

	body := gin.H{
		"accessToken": pair.AccessToken,
		"expiresIn":   int(pair.AccessTTL.Seconds()),
		"userId":      pair.UserID.String(),
	}
	if isNew {
		created(c, body)
		return
	}
	ok(c, body)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(nethttp.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, cookiePath, h.cfg.CookieDomain, !h.cfg.IsDevelopment(), true)
}

// tokenQuery reads the uid/token pair reset and verify links carry. Anything
// unparseable is just an invalid token; the caller learns nothing more.
func tokenQuery(c *gin.Context) (uuid.UUID, string, error) {
	uid, err := uuid.Parse(c.Query("uid"))
	if err != nil {
		return uuid.Nil, "", customErrors.ErrInvalidToken
	}
	nonce := c.Query("token")
	if nonce == "" {
		return uuid.Nil, "", customErrors.ErrInvalidToken
	}
	return uid, nonce, nil
}

// emailDigest keeps addresses out of the log while still letting entries for
// one account correlate.
func emailDigest(email string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(email)))
}
