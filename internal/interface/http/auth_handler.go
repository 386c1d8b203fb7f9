package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth-service/internal/application"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-auth-service/pkg/response"
	"github.com/oksasatya/go-ddd-auth-service/pkg/validation"
)

const (
	msgUserExists         = "User already exists."
	msgInvalidCredentials = "Invalid credentials."
	msgSignupFailed       = "Server error during signup."
	msgSigninFailed       = "Server error during signin."
)

type AuthHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Shape rules live in the service; binding only decodes.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup POST /api/auth/signup {name, email, password}
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err, msgSignupFailed)
		return
	}
	response.Success(c, http.StatusCreated, res, "Signup successful!", gin.H{"expires_at": res.ExpiresAt})
}

// Signin POST /api/auth/signin {email, password}
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Signin(c.Request.Context(), application.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err, msgSigninFailed)
		return
	}
	response.Success(c, http.StatusOK, res, "Signin successful!", gin.H{"expires_at": res.ExpiresAt})
}

// Me GET /api/auth/me (bearer token required)
func (h *AuthHandler) Me(c *gin.Context) {
	v, ok := c.Get(middleware.CtxAccountKey)
	a, _ := v.(*entity.Account)
	if !ok || a == nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.Success(c, http.StatusOK, a.Summary(), "profile", nil)
}

// fail maps service errors to responses. Internal details stay in the service log.
func (h *AuthHandler) fail(c *gin.Context, err error, internalMsg string) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", verr.Fields)
	case errors.Is(err, application.ErrConflict):
		response.Error[any](c, http.StatusBadRequest, msgUserExists, nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusBadRequest, msgInvalidCredentials, nil)
	default:
		if h.Logger != nil && !errors.Is(err, application.ErrInternal) {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("unmapped auth error")
		}
		response.Error[any](c, http.StatusInternalServerError, internalMsg, nil)
	}
}
