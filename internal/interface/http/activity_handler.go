package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/idigest/idigest-server/internal/application"
	"github.com/idigest/idigest-server/internal/interface/middleware"
	"github.com/idigest/idigest-server/pkg/response"
)

type ActivityHandler struct {
	Svc    *application.ActivityService
	Logger *logrus.Logger
}

func NewActivityHandler(svc *application.ActivityService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{Svc: svc, Logger: logger}
}

type deviceRequest struct {
	Token string `json:"token"`
}

func (h *ActivityHandler) RegisterDevice(c *gin.Context) {
	var req deviceRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Svc.RegisterDevice(c.Request.Context(), middleware.UserID(c), req.Token); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.OK(c)
}

func (h *ActivityHandler) UnregisterDevice(c *gin.Context) {
	var req deviceRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Svc.UnregisterDevice(c.Request.Context(), middleware.UserID(c), req.Token); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.OK(c)
}

func (h *ActivityHandler) InviteUsers(c *gin.Context) {
	candidates, err := h.Svc.InviteCandidates(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}

	out := make([]gin.H, 0, len(candidates))
	for _, u := range candidates {
		out = append(out, gin.H{"displayName": u.DisplayName, "loginId": u.LoginID})
	}
	c.JSON(http.StatusOK, out)
}

func (h *ActivityHandler) GetUpdate(c *gin.Context) {
	upd, err := h.Svc.GetUpdate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}

	groups := make([]gin.H, 0, len(upd.Groups))
	for _, g := range upd.Groups {
		groups = append(groups, gin.H{"id": g.ID, "name": g.Name})
	}
	messages := make([]gin.H, 0, len(upd.Messages))
	for _, m := range upd.Messages {
		messages = append(messages, gin.H{
			"id":        m.ID,
			"timestamp": m.Date.UnixMilli(),
			"category":  m.Category,
			"message":   m.Content,
		})
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "messages": messages})
}

func (h *ActivityHandler) DeleteMessage(c *gin.Context) {
	fromID, err := strconv.ParseInt(c.Param("fromUserMessageId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}

	if err := h.Svc.DeleteMessages(c.Request.Context(), middleware.UserID(c), fromID); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.OK(c)
}
