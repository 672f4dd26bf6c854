package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idigest/idigest-server/internal/container"
	handlers "github.com/idigest/idigest-server/internal/interface/http"
	"github.com/idigest/idigest-server/internal/interface/middleware"
	"github.com/idigest/idigest-server/pkg/helpers"
)

// UserModule wires account HTTP handlers and JWT middleware into routes
// Public: POST /user/login, POST /user/create, PUT /user/resetPassword
// Protected: POST /user/refreshAccessToken, GET /user/profile, PUT /user/updateProfile

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)  // 10 req/min per IP
	createLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)   // 5 req/min per IP

	rg.POST("/user/login", loginLimiter, m.Handler.Login)
	rg.POST("/user/create", createLimiter, m.Handler.Create)
	rg.PUT("/user/resetPassword", resetLimiter, m.Handler.ResetPassword)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/user/refreshAccessToken", m.Handler.Refresh)
		auth.GET("/user/profile", m.Handler.GetProfile)
		auth.PUT("/user/updateProfile", m.Handler.UpdateProfile)
	}
}
