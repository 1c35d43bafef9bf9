package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type userWithTaskCountsResponse struct {
	userResponse
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

func (h *handlerImpl) HandleGetUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	response := make([]userWithTaskCountsResponse, len(users))
	for i, entry := range users {
		response[i] = userWithTaskCountsResponse{
			userResponse:    newUserResponse(entry.User),
			PendingTasks:    entry.PendingTasks,
			InProgressTasks: entry.InProgressTasks,
			CompletedTasks:  entry.CompletedTasks,
		}
	}

	c.JSON(http.StatusOK, response)
}
