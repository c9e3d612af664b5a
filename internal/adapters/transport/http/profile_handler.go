package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	"github.com/bloggerhq/blogger/internal/adapters/transport/http/middleware"
	authsvc "github.com/bloggerhq/blogger/internal/app/auth/service"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

type ProfileHandler struct {
	svc authsvc.Service
	cfg *config.Config
}

func NewProfileHandler(svc authsvc.Service, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{svc: svc, cfg: cfg}
}

// Register wires the /api/me routes. All of them require a valid access
// token; the sensitive ones additionally pass through the strict limiter.
func (h *ProfileHandler) Register(r gin.IRouter, guard, hydrate, strictLimit gin.HandlerFunc) {
	me := r.Group("/api/me", guard)

	me.GET("/profile", hydrate, func(c *gin.Context) {
		u, _ := middleware.UserFrom(c)
		ok(c, gin.H{"user": newUserView(u)})
	})

	me.PUT("/profile", func(c *gin.Context) {
		var body dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		id, _ := middleware.IdentityFrom(c)
		u, err := h.svc.UpdateProfile(c.Request.Context(), id.UserID, body)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"user": newUserView(u)})
	})

	me.PUT("/password", strictLimit, func(c *gin.Context) {
		var body dto.ChangePasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		id, _ := middleware.IdentityFrom(c)
		if err := h.svc.ChangePassword(c.Request.Context(), id.UserID, body); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "password updated"})
	})

	me.DELETE("", strictLimit, func(c *gin.Context) {
		id, _ := middleware.IdentityFrom(c)
		refresh, _ := c.Cookie(refreshCookie)
		if err := h.svc.DeleteAccount(c.Request.Context(), id.UserID, refresh); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "account deleted"})
	})
}
