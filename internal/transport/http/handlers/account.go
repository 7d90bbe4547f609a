package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-admin/internal/transport/http/middleware"
	"github.com/arklim/social-platform-admin/internal/usecase"
)

// AccountHandler exposes the self-service endpoints for the authenticated admin.
type AccountHandler struct {
	accounts *usecase.AccountService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes attaches the account endpoints to the supplied group. The
// group is expected to carry the session middleware.
func (h *AccountHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/profile", h.GetProfile)
	group.PUT("/profile", h.UpdateProfile)
	group.POST("/password/change", h.ChangePassword)
	group.POST("/logout", h.Logout)
}

// GetProfile returns the authenticated admin's profile projection.
func (h *AccountHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.GetAuthenticatedAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	account, err := h.accounts.GetProfile(c.Request.Context(), identity)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAdminNotFound, Status: http.StatusNotFound, Message: "admin account not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, AdminProfileResponse{
		ID:                 account.ID,
		Username:           account.Username,
		Email:              account.Email,
		LastLogin:          account.LastLogin,
		LastLoginIP:        account.LastLoginIP,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
		MustChangePassword: account.MustChangePassword,
	})
}

// UpdateProfile validates and persists new username/email values.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	identity, ok := middleware.GetAuthenticatedAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile update payload"))
		return
	}

	account, err := h.accounts.UpdateProfile(c.Request.Context(), identity, usecase.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if respondTypedError(c, err) {
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAdminNotFound, Status: http.StatusNotFound, Message: "admin account not found"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, UpdateProfileResponse{
		Message: "Profile updated successfully",
		User: AdminSummary{
			ID:                 account.ID,
			Username:           account.Username,
			Email:              account.Email,
			MustChangePassword: account.MustChangePassword,
		},
	})
}

// ChangePassword rotates the authenticated admin's credential.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.GetAuthenticatedAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid change password payload"))
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), identity, usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if respondTypedError(c, err) {
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAdminNotFound, Status: http.StatusNotFound, Message: "admin account not found"},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// Logout terminates the caller's session. Always succeeds, even when the
// token is already gone.
func (h *AccountHandler) Logout(c *gin.Context) {
	identity, ok := middleware.GetAuthenticatedAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	token := middleware.GetBearerToken(c)

	if err := h.accounts.Logout(c.Request.Context(), identity, token); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to log out")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
