package handler

import (
	"log"
	"net/http"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/internal/modules/admin/dto"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	"anoa.com/eventtech/pkg/metrics"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/ratelimit"
	"anoa.com/eventtech/pkg/response"
	"anoa.com/eventtech/pkg/session"
	"github.com/gin-gonic/gin"
)

const (
	DashboardURL = "dashboard.jsp"
	LoginURL     = "admin-login.jsp"
)

type AdminHandler struct {
	adminService adminService.AdminService
	sessions     *session.Manager
	limiter      *ratelimit.Limiter
	metrics      *metrics.Metrics
}

func NewAdminHandler(adminService adminService.AdminService, sessions *session.Manager, limiter *ratelimit.Limiter, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		sessions:     sessions,
		limiter:      limiter,
		metrics:      m,
	}
}

// HandlePost serves POST /admin-login. The action defaults to login.
func (h *AdminHandler) HandlePost(c *gin.Context) {
	switch param.Action(c) {
	case "", "login":
		h.Login(c)
	case "logout":
		h.Logout(c)
	default:
		response.Error(c, http.StatusBadRequest, "Invalid action")
	}
}

// HandleGet serves GET /admin-login, which only supports logout.
func (h *AdminHandler) HandleGet(c *gin.Context) {
	if param.Action(c) == "logout" {
		h.Logout(c)
		return
	}
	response.Error(c, http.StatusBadRequest, "Invalid action")
}

func (h *AdminHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Username is required")
		return
	}

	ctx := c.Request.Context()
	admin, err := h.adminService.Authenticate(ctx, input)
	if err != nil {
		h.metrics.Login("failure")
		response.ResponseError(c, err, "Login failed. Please try again.")
		return
	}

	token, _, err := h.sessions.Issue(ctx, admin.ID, admin.Username, entity.RoleAdmin)
	if err != nil {
		h.metrics.Login("error")
		response.ResponseError(c, err, "Login failed. Please try again.")
		return
	}
	h.sessions.SetCookie(c, token)

	// a successful login opens the next window right away
	if err := h.limiter.Clear(ctx, c.ClientIP(), ratelimit.ActionLogin); err != nil {
		log.Printf("[admin] failed to clear login rate limit: %v", err)
	}

	h.adminService.LogAction(ctx, admin.ID, "Admin login successful")
	h.metrics.Login("success")

	response.Success(c, "Login successful! Redirecting to dashboard...", gin.H{
		"redirect_url":   DashboardURL,
		"admin_username": admin.Username,
	})
}

// Logout always succeeds; an absent or expired session is simply cleared.
func (h *AdminHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if claims, err := h.sessions.Parse(ctx, h.sessions.TokenFromRequest(c)); err == nil {
		if adminID, err := claims.AdminID(); err == nil {
			h.adminService.LogAction(ctx, adminID, "Admin logout")
		}
		if err := h.sessions.Revoke(ctx, claims); err != nil {
			log.Printf("[admin] failed to revoke session: %v", err)
		}
	}
	h.sessions.ClearCookie(c)

	response.Success(c, "Logged out successfully", gin.H{
		"redirect_url": LoginURL,
	})
}

// Me returns the admin bound to the current session.
func (h *AdminHandler) Me(c *gin.Context) {
	adminID, err := response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	admin, err := h.adminService.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		response.ResponseError(c, err, "Failed to load admin")
		return
	}

	response.Success(c, "", gin.H{"admin": admin})
}
