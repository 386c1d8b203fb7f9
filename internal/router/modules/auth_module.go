package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-auth-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-auth-service/internal/interface/middleware"
)

// Limits configures per-route rate limiters. Zero values disable a limiter.
type Limits struct {
	Signup gin.HandlerFunc
	Signin gin.HandlerFunc
	Me     gin.HandlerFunc
}

// AuthModule wires auth handlers into routes
// Public: POST /api/auth/signup, POST /api/auth/signin
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    middleware.Authenticator
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, auth middleware.Authenticator, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/signup", chain(m.Limits.Signup, m.Handler.Signup)...)
	g.POST("/signin", chain(m.Limits.Signin, m.Handler.Signin)...)

	protected := g.Group("/")
	protected.Use(middleware.BearerAuth(m.Auth))
	protected.GET("/me", chain(m.Limits.Me, m.Handler.Me)...)
}

func chain(limiter gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{limiter, h}
}
