package middleware

import (
	"net/http"
	"strings"

	"enrollment-sync/internal/domain/auth"
	"enrollment-sync/internal/handler/httperr"
	"enrollment-sync/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ctxSubjectKey = "subject"
	ctxRoleKey    = "role"
)

// AuthMiddleware guards the admin routes. Participant routes carry no token.
type AuthMiddleware struct {
	tokens usecase.TokenValidator
}

func NewAuthMiddleware(tokens usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth stores the bearer token's subject and role on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			deny(c, http.StatusUnauthorized, "Access token required")
			return
		}

		subject, role, err := m.tokens.ValidateToken(token)
		if err != nil {
			loggerFrom(c).WarnContext(c.Request.Context(), "rejected bearer token",
				"request_id", GetRequestID(c), "error", err.Error())
			deny(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ctxSubjectKey, subject)
		c.Set(ctxRoleKey, role)
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		switch {
		case !ok:
			deny(c, http.StatusInternalServerError, "Internal server error")
		case !role.AtLeast(minRole):
			deny(c, http.StatusForbidden, "Insufficient permissions")
		default:
			c.Next()
		}
	}
}

func (m *AuthMiddleware) RequireAdmin() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.RequireAuth(), m.RequireRoleAtLeast(auth.RoleAdmin)}
}

func deny(c *gin.Context, status int, msg string) {
	resp := httperr.Response{Status: status}
	resp.Error.Message = msg
	c.AbortWithStatusJSON(status, resp)
}

func GetSubject(c *gin.Context) (string, bool) {
	s, ok := c.Get(ctxSubjectKey)
	if !ok {
		return "", false
	}
	subject, ok := s.(string)
	return subject, ok
}

func GetUserRole(c *gin.Context) (auth.Role, bool) {
	r, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := r.(auth.Role)
	return role, ok
}
