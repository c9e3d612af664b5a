package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	"github.com/bloggerhq/blogger/internal/adapters/transport/http/middleware"
	blogsvc "github.com/bloggerhq/blogger/internal/app/blog/service"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

type BlogHandler struct {
	svc blogsvc.Service
	cfg *config.Config
}

func NewBlogHandler(svc blogsvc.Service, cfg *config.Config) *BlogHandler {
	return &BlogHandler{svc: svc, cfg: cfg}
}

func (h *BlogHandler) Register(r gin.IRouter, guard, guardOptional gin.HandlerFunc) {
	blogs := r.Group("/api/blogs")

	blogs.POST("", guard, func(c *gin.Context) {
		var body dto.CreateBlogDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		id, _ := middleware.IdentityFrom(c)
		blog, err := h.svc.Create(c.Request.Context(), id.UserID, body)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		created(c, gin.H{"blog": newBlogView(blog)})
	})

	blogs.GET("", func(c *gin.Context) {
		var q dto.BlogListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		list, total, err := h.svc.List(c.Request.Context(), q)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{
			"blogs": newBlogViews(list),
			"total": total,
			"page":  q.Page,
			"limit": q.Limit,
		})
	})

	// optional auth: authors see their own drafts and private posts here
	blogs.GET("/:id", guardOptional, func(c *gin.Context) {
		blogID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			handleError(c, h.cfg, customErrors.ErrNotFound)
			return
		}
		var viewer *uuid.UUID
		if id, authed := middleware.IdentityFrom(c); authed {
			viewer = &id.UserID
		}
		blog, err := h.svc.Get(c.Request.Context(), blogID, viewer)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"blog": newBlogView(blog)})
	})

	blogs.PUT("/:id", guard, func(c *gin.Context) {
		blogID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			handleError(c, h.cfg, customErrors.ErrNotFound)
			return
		}
		var body dto.UpdateBlogDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, h.cfg, err)
			return
		}
		id, _ := middleware.IdentityFrom(c)
		blog, err := h.svc.Update(c.Request.Context(), blogID, id.UserID, body)
		if err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"blog": newBlogView(blog)})
	})

	blogs.DELETE("/:id", guard, func(c *gin.Context) {
		blogID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			handleError(c, h.cfg, customErrors.ErrNotFound)
			return
		}
		id, _ := middleware.IdentityFrom(c)
		if err := h.svc.Delete(c.Request.Context(), blogID, id.UserID); err != nil {
			handleError(c, h.cfg, err)
			return
		}
		ok(c, gin.H{"message": "blog deleted"})
	})
}
