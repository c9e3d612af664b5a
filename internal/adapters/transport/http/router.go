package http

import (
	nethttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/middleware"
	authsvc "github.com/bloggerhq/blogger/internal/app/auth/service"
	blogsvc "github.com/bloggerhq/blogger/internal/app/blog/service"
	"github.com/bloggerhq/blogger/internal/app/notify"
	"github.com/bloggerhq/blogger/internal/domain/jwt"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

// NewRouter assembles the full HTTP surface: global middleware, CORS, auth,
// profile and blog routes, plus health.
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	signer jwt.TokenSigner,
	auth authsvc.Service,
	blog blogsvc.Service,
	resolver *notify.ContextResolver,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RateLimitPerIP(50, 100, 10_000, time.Hour))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{cfg.ClientOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	guard := middleware.Guard(signer)
	guardOptional := middleware.GuardOptional(signer)
	hydrate := middleware.Hydrate(auth)
	// the strict limiter sits on password-change and account-delete only
	strictLimit := middleware.RateLimitPerIP(1, 5, 10_000, time.Hour)

	NewAuthHandler(auth, resolver, cfg, log).Register(r, guard)
	NewProfileHandler(auth, cfg).Register(r, guard, hydrate, strictLimit)
	NewBlogHandler(blog, cfg).Register(r, guard, guardOptional)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	return r
}
