package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-auth-service/internal/application"
	"github.com/oksasatya/go-ddd-auth-service/internal/container"
	handlers "github.com/oksasatya/go-ddd-auth-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-auth-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-auth-service/internal/router/modules"
)

type AuthModuleDeps struct {
	Service *application.Service
	Handler *handlers.AuthHandler
	Limits  modules.Limits
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	service := application.NewService(
		container.GetAccountRepo(),
		container.GetHasher(),
		container.GetTokens(),
		container.GetNotifier(),
		logger,
	)
	handler := handlers.NewAuthHandler(service, logger)

	var limits modules.Limits
	if rdb := container.GetRedis(); rdb != nil {
		var allow middleware.AllowFunc
		if cfg.Env == "development" {
			allow = middleware.AllowPrivateIP()
		}
		limit := func(max int, key middleware.KeyFunc) gin.HandlerFunc {
			return middleware.RateLimit(rdb, max, cfg.RateLimitWindow, key, allow, logger)
		}
		limits = modules.Limits{
			Signup: limit(cfg.RateLimitSignup, middleware.KeyByIPAndPath()),
			Signin: limit(cfg.RateLimitSignin, middleware.KeyByIPAndPath()),
			Me:     limit(120, middleware.KeyByAccountID()),
		}
	}

	return AuthModuleDeps{Service: service, Handler: handler, Limits: limits}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup, after the container is populated.
func InitModules(r *Registry) {
	auth := buildAuthDeps()
	r.Add(modules.NewAuthModule(auth.Handler, auth.Service, auth.Limits))
}
