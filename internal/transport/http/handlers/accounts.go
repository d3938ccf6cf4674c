package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryabko/account-service/internal/transport/http/middleware"
	"github.com/ryabko/account-service/internal/usecase"
)

// AccountHandler exposes self-service profile endpoints for the authenticated account.
type AccountHandler struct {
	accounts *usecase.AccountService
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes binds profile routes onto the provided (already authenticated) group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.me)
	r.PATCH("/me", h.updateProfile)
	r.POST("/me/password", h.changePassword)
}

func (h *AccountHandler) me(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

func (h *AccountHandler) updateProfile(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	updated, err := h.accounts.UpdateProfile(c.Request.Context(), account.ID, usecase.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateEmail, Status: http.StatusBadRequest, Message: usecase.ErrDuplicateEmail.Error()},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: usecase.ErrAccountNotFound.Error()},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(updated))
}

func (h *AccountHandler) changePassword(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), account.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCurrentPasswordInvalid, Status: http.StatusUnauthorized, Message: usecase.ErrCurrentPasswordInvalid.Error()},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: usecase.ErrAccountNotFound.Error()},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
