package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	pgrepo "github.com/bloggerhq/blogger/internal/adapters/db/postgres"
	redisrepo "github.com/bloggerhq/blogger/internal/adapters/db/redis"
	"github.com/bloggerhq/blogger/internal/adapters/mail"
	httpapi "github.com/bloggerhq/blogger/internal/adapters/transport/http"
	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	"github.com/bloggerhq/blogger/internal/app/auth/hash"
	"github.com/bloggerhq/blogger/internal/app/auth/jwt"
	authsvc "github.com/bloggerhq/blogger/internal/app/auth/service"
	"github.com/bloggerhq/blogger/internal/app/auth/tokens"
	blogsvc "github.com/bloggerhq/blogger/internal/app/blog/service"
	"github.com/bloggerhq/blogger/internal/app/notify"
	"github.com/bloggerhq/blogger/internal/infra/config"
	lg "github.com/bloggerhq/blogger/internal/infra/log"
	"github.com/bloggerhq/blogger/internal/infra/migrate"
)

func main() {
	zapLog := lg.Must(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validator.New()
	if err := dto.RegisterValidators(validate); err != nil {
		zapLog.Fatal("register validators", zap.Error(err))
	}

	userRepo := pgrepo.NewPostgresUserRepo(db)
	blogRepo := pgrepo.NewPostgresBlogRepo(db)
	tokenStore := redisrepo.NewRedisTokenStore(redisCli)

	signer, err := jwt.NewSigner(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token signer", zap.Error(err))
	}
	issuer := tokens.NewIssuer(tokenStore, cfg.RefreshTokenTTL)
	hasher := hash.NewArgon2Hasher(cfg.PasswordPepper)

	mailer, err := mail.NewSMTPMailer(cfg)
	if err != nil {
		zapLog.Fatal("failed to init mailer", zap.Error(err))
	}
	dispatcher := notify.NewDispatcher(mailer, zapLog, 4, 256)
	defer dispatcher.Close()

	resolver := notify.NewContextResolver(cfg.GeoIPDBPath, zapLog)

	auth := authsvc.New(userRepo, issuer, signer, hasher, dispatcher, cfg, validate)
	blog := blogsvc.New(blogRepo, validate)

	router := httpapi.NewRouter(cfg, zapLog, signer, auth, blog, resolver)
	srv := &nethttp.Server{Addr: cfg.HTTPAddress, Handler: router}

	rootCtx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
