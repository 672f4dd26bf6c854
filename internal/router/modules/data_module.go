package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idigest/idigest-server/internal/container"
	handlers "github.com/idigest/idigest-server/internal/interface/http"
	"github.com/idigest/idigest-server/internal/interface/middleware"
	"github.com/idigest/idigest-server/pkg/helpers"
)

// DataModule exposes the keyed per-user data surface.
// All routes require a bearer token; records are always scoped to the
// authenticated user.

type DataModule struct {
	Handler *handlers.UserDataHandler
	JWT     *helpers.JWTManager
}

func NewDataModule(h *handlers.UserDataHandler, jwt *helpers.JWTManager) *DataModule {
	return &DataModule{Handler: h, JWT: jwt}
}

func (m *DataModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/user/data/*key", m.Handler.Set)
		auth.GET("/user/data/*key", m.Handler.Get)
		auth.DELETE("/user/data/*key", m.Handler.Delete)
	}
}
