package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/idigest/idigest-server/internal/application"
	"github.com/idigest/idigest-server/internal/interface/middleware"
	"github.com/idigest/idigest-server/pkg/response"
)

type UserDataHandler struct {
	Svc    *application.UserDataService
	Logger *logrus.Logger
}

func NewUserDataHandler(svc *application.UserDataService, logger *logrus.Logger) *UserDataHandler {
	return &UserDataHandler{Svc: svc, Logger: logger}
}

// dataKey extracts the free-form key from the wildcard route segment.
func dataKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

func (h *UserDataHandler) Set(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}

	if err := h.Svc.Set(c.Request.Context(), middleware.UserID(c), dataKey(c), body); err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			response.BadRequest(c, application.Message(err))
			return
		}
		h.Logger.WithError(err).WithField("key", dataKey(c)).Error("set user data failed")
		response.Internal(c, err)
		return
	}
	response.OK(c)
}

func (h *UserDataHandler) Get(c *gin.Context) {
	content, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), dataKey(c))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c)
			return
		}
		h.Logger.WithError(err).WithField("key", dataKey(c)).Error("get user data failed")
		response.Internal(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", content)
}

func (h *UserDataHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), dataKey(c)); err != nil {
		h.Logger.WithError(err).WithField("key", dataKey(c)).Error("delete user data failed")
		response.Internal(c, err)
		return
	}
	response.OK(c)
}
