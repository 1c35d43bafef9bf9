package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avdeyev/go-taskboard/internal/services"
)

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: message})
}

// abortWithServiceError maps the service error taxonomy onto HTTP codes:
// validation 400, password mismatch 401, forbidden 403, not found 404 and
// everything else 500 with the message passed through.
func (h *handlerImpl) abortWithServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abortWithMessage(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrEmailTaken):
		abortWithMessage(c, http.StatusBadRequest, "Email already in use")
	case errors.Is(err, services.ErrPasswordMismatch):
		abortWithMessage(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrNotAssignee):
		abortWithMessage(c, http.StatusForbidden, "Not authorized to update checklist")
	case errors.Is(err, services.ErrTaskNotFound):
		abortWithMessage(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		abortWithMessage(c, http.StatusNotFound, "User not found")
	default:
		h.logger.Error().
			Err(err).
			Msg("unexpected service error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Message: "Server Error",
			Error:   err.Error(),
		})
	}
}
