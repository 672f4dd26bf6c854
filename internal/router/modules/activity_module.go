package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idigest/idigest-server/internal/container"
	handlers "github.com/idigest/idigest-server/internal/interface/http"
	"github.com/idigest/idigest-server/internal/interface/middleware"
	"github.com/idigest/idigest-server/pkg/helpers"
)

// ActivityModule covers push-device registration, group invitations and
// the in-app message feed.

type ActivityModule struct {
	Handler *handlers.ActivityHandler
	JWT     *helpers.JWTManager
}

func NewActivityModule(h *handlers.ActivityHandler, jwt *helpers.JWTManager) *ActivityModule {
	return &ActivityModule{Handler: h, JWT: jwt}
}

func (m *ActivityModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/user/registerDevice", m.Handler.RegisterDevice)
		auth.POST("/user/unregisterDevice", m.Handler.UnregisterDevice)
		auth.GET("/user/inviteUsers", m.Handler.InviteUsers)
		auth.GET("/user/getUpdate", m.Handler.GetUpdate)
		auth.DELETE("/user/message/:fromUserMessageId", m.Handler.DeleteMessage)
	}
}
