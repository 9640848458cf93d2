package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"naomitex/internal/apperrors"
	"naomitex/internal/policy"
)

const (
	sessionUserKey = "user_id"
	principalKey   = "principal"
)

// withPrincipal resolves the session into a Principal for every request.
// A stale session (deleted or deactivated user) degrades to anonymous.
func (h *Handlers) withPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := policy.Anonymous()
		sess := sessions.Default(c)
		if v := sess.Get(sessionUserKey); v != nil {
			if id, ok := v.(uint); ok {
				if user, err := h.accounts.Get(c.Request.Context(), id); err == nil && user.IsActive {
					principal = policy.ForUser(user)
				}
			}
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// mustLogin rejects anonymous requests.
func mustLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentPrincipal(c).Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) policy.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(policy.Principal); ok {
			return p
		}
	}
	return policy.Anonymous()
}

// renderError maps a service error to an HTTP response.
func (h *Handlers) renderError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
		return
	}
	h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": apperrors.CodeInternal, "message": "internal error"}})
}
