package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ryabko/account-service/internal/infra/telemetry"
	"github.com/ryabko/account-service/internal/usecase"
)

// AuthHandler exposes signup and login endpoints.
type AuthHandler struct {
	auth      *usecase.AuthService
	tokenTTL  time.Duration
	telemetry *telemetry.Provider
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, tokenTTL time.Duration, provider *telemetry.Provider) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		tokenTTL:  tokenTTL,
		telemetry: provider,
	}
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of each handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, signupMiddlewares, loginMiddlewares []gin.HandlerFunc) {
	r.POST("/signup", append(append([]gin.HandlerFunc{}, signupMiddlewares...), h.signup)...)
	r.POST("/login", append(append([]gin.HandlerFunc{}, loginMiddlewares...), h.login)...)
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid signup payload"))
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateEmail, Status: http.StatusBadRequest, Message: usecase.ErrDuplicateEmail.Error()},
		}, http.StatusInternalServerError, "failed to create account")
		return
	}

	c.JSON(http.StatusCreated, h.authResponse(result))
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.recordLogin("failure")
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: usecase.ErrInvalidCredentials.Error()},
			{Err: usecase.ErrAccountInactive, Status: http.StatusForbidden, Message: usecase.ErrAccountInactive.Error()},
		}, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	h.recordLogin("success")
	c.JSON(http.StatusOK, h.authResponse(result))
}

func (h *AuthHandler) authResponse(result usecase.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokenTTL.Seconds()),
		Account:     newAccountSummary(result.Account),
	}
}

func (h *AuthHandler) recordLogin(outcome string) {
	if h.telemetry != nil {
		h.telemetry.RecordLogin(outcome)
	}
}
