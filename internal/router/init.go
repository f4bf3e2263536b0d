package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/config"
	"github.com/oksasatya/booking-api/internal/application"
	"github.com/oksasatya/booking-api/internal/container"
	pginfra "github.com/oksasatya/booking-api/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/booking-api/internal/infrastructure/redis"
	"github.com/oksasatya/booking-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/booking-api/internal/interface/http"
	"github.com/oksasatya/booking-api/internal/interface/middleware"
	"github.com/oksasatya/booking-api/internal/router/modules"
	"github.com/oksasatya/booking-api/pkg/helpers"
)

// Deps is everything the HTTP modules need.
type Deps struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client
	Auth   *application.AuthService
	Users  *application.UserService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	hasher := helpers.NewPasswordHasher(cfg.BcryptCost)

	authSvc := application.NewAuthService(repo, container.GetJWT(), hasher, logger)
	authSvc.AppName = cfg.AppName
	userSvc := application.NewUserService(repo, hasher, logger)

	if rdb := container.GetRedis(); rdb != nil {
		authSvc.Denylist = redisinfra.NewTokenDenylist(rdb)
	}
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		authSvc.Pub = pub
	}
	if es := container.GetES(); es != nil {
		idx := search.NewUserIndex(es, cfg.ESUsersIndex)
		authSvc.Indexer = idx
		userSvc.Indexer = idx
	}

	return Deps{Config: cfg, Logger: logger, Redis: container.GetRedis(), Auth: authSvc, Users: userSvc}
}

// Mount adds the auth, user and (optionally) debug modules to the registry.
func Mount(r *Registry, d Deps) {
	cfg := d.Config
	auth := middleware.Auth(d.Auth)

	var allow middleware.AllowFunc
	if cfg.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}
	var credLimit, userLimit gin.HandlerFunc
	if d.Redis != nil {
		credLimit = middleware.RateLimit(d.Redis, cfg.AuthRateLimit, cfg.AuthRateWindow, middleware.KeyByIPAndPath(), allow)
		userLimit = middleware.RateLimit(d.Redis, cfg.AuthRateLimit, cfg.AuthRateWindow, middleware.KeyByUserID(), allow)
	}

	r.Use(middleware.RealIP())
	authMod := modules.NewAuthModule(handlers.NewAuthHandler(d.Auth, d.Logger, cfg.CookieDomain, cfg.CookieSecure), auth, credLimit)
	authMod.UserLimit = userLimit
	r.Add(authMod)
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, d.Logger), auth))

	if cfg.DebugMetricsEnabled {
		var debugLimit gin.HandlerFunc
		if d.Redis != nil {
			debugLimit = middleware.RateLimit(d.Redis, 120, time.Minute, middleware.KeyByIPAndPath(), nil)
		}
		r.Add(modules.NewDebugModule(debugLimit))
	}
}

// InitModules initializes all application modules from the container and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, buildDeps())
}
