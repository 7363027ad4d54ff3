package middleware

import (
	"errors"
	"log"
	"net/http"

	"anoa.com/eventtech/internal/entity"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"anoa.com/eventtech/pkg/session"
	"github.com/gin-gonic/gin"
)

const unauthorizedMessage = "Unauthorized access. Please login first."

type AuthMiddleware struct {
	adminRepo adminRepo.AdminRepository
	sessions  *session.Manager
}

func NewAuthMiddleware(adminRepo adminRepo.AdminRepository, sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		adminRepo: adminRepo,
		sessions:  sessions,
	}
}

// RequireAdmin admits requests carrying a live admin session and slides
// its expiry forward.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		claims, err := m.sessions.Parse(ctx, m.sessions.TokenFromRequest(c))
		if err != nil {
			if !errors.Is(err, session.ErrInvalidSession) {
				log.Printf("[auth] session lookup failed: %v", err)
			}
			m.reject(c)
			return
		}

		if claims.Role != entity.RoleAdmin {
			m.reject(c)
			return
		}

		adminID, err := claims.AdminID()
		if err != nil || !m.adminRepo.ValidateSession(ctx, adminID) {
			m.reject(c)
			return
		}

		if token, err := m.sessions.Refresh(ctx, claims); err == nil {
			m.sessions.SetCookie(c, token)
		} else {
			log.Printf("[auth] failed to refresh session: %v", err)
		}

		c.Set("admin_id", adminID)
		c.Set("admin_username", claims.Username)
		c.Set("session_claims", claims)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context) {
	m.sessions.ClearCookie(c)
	response.Error(c, http.StatusUnauthorized, unauthorizedMessage)
	c.Abort()
}

// RequireAdminFor guards only the listed actions of an otherwise public
// endpoint.
func (m *AuthMiddleware) RequireAdminFor(actions ...string) gin.HandlerFunc {
	requireAdmin := m.RequireAdmin()
	return func(c *gin.Context) {
		action := param.Action(c)
		for _, a := range actions {
			if a == action {
				requireAdmin(c)
				return
			}
		}
		c.Next()
	}
}
