package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/idigest/idigest-server/internal/application"
	"github.com/idigest/idigest-server/internal/interface/middleware"
	"github.com/idigest/idigest-server/pkg/response"
	"github.com/idigest/idigest-server/pkg/validation"
)

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// writeServiceError maps the application error taxonomy onto the wire.
// Everything in the taxonomy is a 400 with the service's message; anything
// else is an unexpected failure and surfaces as a 500 with diagnostics.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrAuthFailure),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, application.ErrNotFound):
		response.BadRequest(c, application.Message(err))
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		response.Internal(c, err)
	}
}

type loginRequest struct {
	LoginID  string `json:"loginId" binding:"required,loginid"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type createRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	LoginID     string `json:"loginId" binding:"required,loginid"`
	LoginIDType string `json:"loginIdType" binding:"required"`
	Password    string `json:"password" binding:"required,pwd"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}

	token, err := h.Svc.Create(c.Request.Context(), application.CreateInput{
		DisplayName: req.DisplayName,
		LoginID:     req.LoginID,
		LoginIDType: req.LoginIDType,
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"accessToken": token})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	userID := middleware.UserID(c)
	loginID := middleware.LoginID(c)

	token, err := h.Svc.Refresh(userID, loginID)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

type resetPasswordRequest struct {
	LoginID string `json:"loginId" binding:"required,loginid"`
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}

	if err := h.Svc.ResetPassword(c.Request.Context(), req.LoginID); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.OK(c)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	displayName, err := h.Svc.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		// Missing profile is a 400 here, unlike the data endpoints.
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"displayName": displayName})
}

type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Password    *string `json:"password"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}

	err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.OK(c)
}
