package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/httperr"
	"github.com/ridloal/mini-store/internal/user/domain"
	"github.com/ridloal/mini-store/internal/user/service"
)

type UserHandler struct {
	accounts  service.AccountService
	lifecycle service.LifecycleService
	verifier  auth.Verifier
}

func NewUserHandler(accounts service.AccountService, lifecycle service.LifecycleService, v auth.Verifier) *UserHandler {
	return &UserHandler{accounts: accounts, lifecycle: lifecycle, verifier: v}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/refresh", h.Refresh)
		authRoutes.GET("/me", auth.RequireAuth(h.verifier), h.Me)
	}

	router.PUT("/users/me/deactivate", auth.RequireAuth(h.verifier), h.SelfDeactivate)

	adminRoutes := router.Group("/admin/users", auth.RequireAuth(h.verifier), auth.RequireRole(auth.RoleAdmin))
	{
		adminRoutes.GET("", h.ListUsers)
		adminRoutes.PUT("/:id/disable", h.DisableUser)
		adminRoutes.PUT("/:id/enable", h.EnableUser)
		adminRoutes.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	resp, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err, "Failed to login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	resp, err := h.accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httperr.Respond(c, err, "Failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	user, err := h.accounts.GetProfile(c.Request.Context(), caller.UserID)
	if err != nil {
		httperr.Respond(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SelfDeactivate(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.lifecycle.SelfDeactivate(c.Request.Context(), caller.UserID); err != nil {
		httperr.Respond(c, err, "Failed to deactivate account")
		return
	}
	c.JSON(http.StatusOK, domain.MessageResponse{Message: "Account deactivated"})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	users, err := h.lifecycle.ListNonAdmin(c.Request.Context(), caller)
	if err != nil {
		httperr.Respond(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DisableUser(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.lifecycle.Disable(c.Request.Context(), c.Param("id"), caller); err != nil {
		httperr.Respond(c, err, "Failed to disable user")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) EnableUser(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.lifecycle.Enable(c.Request.Context(), c.Param("id"), caller); err != nil {
		httperr.Respond(c, err, "Failed to enable user")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.lifecycle.SoftDelete(c.Request.Context(), c.Param("id"), caller); err != nil {
		httperr.Respond(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
