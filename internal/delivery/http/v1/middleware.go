package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avdeyev/go-taskboard/internal/services"
)

const principalCtxKey = "principal"

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		abortWithMessage(c, http.StatusUnauthorized, "Authorization header required")
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Warn().Msg("invalid authorization header")
		abortWithMessage(c, http.StatusUnauthorized, "Invalid authorization header")
		return
	}

	claims, err := h.auth.ParseToken(parts[1])
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to parse token")
		abortWithMessage(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	// The token only proves identity; the role always comes from the
	// user record so a role change takes effect on the next request.
	user, err := h.users.GetUser(c, claims.Subject)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", claims.Subject).
			Msg("token subject not found")
		abortWithMessage(c, http.StatusUnauthorized, "Unknown user")
		return
	}

	c.Set(principalCtxKey, services.Principal{
		ID:   user.ID,
		Role: user.Role,
	})
	c.Next()
}

func (h *handlerImpl) HandleAdminMiddleware(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		abortWithMessage(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !principal.IsAdmin() {
		h.logger.Warn().
			Str("user_id", principal.ID).
			Msg("admin access denied")
		abortWithMessage(c, http.StatusForbidden, "Admin access required")
		return
	}
	c.Next()
}

func principalFromContext(c *gin.Context) (services.Principal, bool) {
	value, exists := c.Get(principalCtxKey)
	if !exists {
		return services.Principal{}, false
	}
	principal, ok := value.(services.Principal)
	return principal, ok
}

// requirePrincipal fetches the authenticated principal or aborts with 401.
func (h *handlerImpl) requirePrincipal(c *gin.Context) (services.Principal, bool) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		abortWithMessage(c, http.StatusUnauthorized, "Authentication required")
	}
	return principal, ok
}
