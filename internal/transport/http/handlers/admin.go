package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/transport/http/middleware"
	"github.com/ryabko/account-service/internal/usecase"
)

// AdminHandler exposes administrator-only account lifecycle endpoints.
type AdminHandler struct {
	accounts  *usecase.AccountService
	lifecycle *usecase.LifecycleService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(accounts *usecase.AccountService, lifecycle *usecase.LifecycleService) *AdminHandler {
	return &AdminHandler{accounts: accounts, lifecycle: lifecycle}
}

// RegisterRoutes binds admin routes onto the provided (admin-gated) group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/:id", h.get)
	r.PATCH("/users/:id/activate", h.activate)
	r.PATCH("/users/:id/deactivate", h.deactivate)
}

func (h *AdminHandler) get(c *gin.Context) {
	account, err := h.accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: usecase.ErrAccountNotFound.Error()},
		}, http.StatusInternalServerError, "failed to load account")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

func (h *AdminHandler) activate(c *gin.Context) {
	actor, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	account, err := h.lifecycle.Activate(c.Request.Context(), c.Param("id"), actor.ID)
	if err != nil {
		RespondWithMappedError(c, err, lifecycleErrorCases(), http.StatusInternalServerError, "failed to activate account")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

func (h *AdminHandler) deactivate(c *gin.Context) {
	actor, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	account, err := h.lifecycle.Deactivate(c.Request.Context(), c.Param("id"), actor.ID)
	if err != nil {
		RespondWithMappedError(c, err, lifecycleErrorCases(), http.StatusInternalServerError, "failed to deactivate account")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

func lifecycleErrorCases() []ErrorCase {
	return []ErrorCase{
		{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: usecase.ErrAccountNotFound.Error()},
		{Err: domain.ErrSelfDeactivation, Status: http.StatusBadRequest, Message: domain.ErrSelfDeactivation.Error()},
		{Err: domain.ErrAlreadyActive, Status: http.StatusBadRequest, Message: domain.ErrAlreadyActive.Error()},
		{Err: domain.ErrAlreadyInactive, Status: http.StatusBadRequest, Message: domain.ErrAlreadyInactive.Error()},
	}
}
