package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/services"
)

type taskResponse struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Priority           string               `json:"priority"`
	Status             string               `json:"status"`
	DueDate            time.Time            `json:"dueDate"`
	AssignedTo         []models.UserSummary `json:"assignedTo"`
	CreatedBy          string               `json:"createdBy"`
	TodoChecklist      []models.TodoItem    `json:"todoChecklist"`
	Progress           int                  `json:"progress"`
	Attachments        []string             `json:"attachments"`
	CompletedTodoCount int                  `json:"completedTodoCount"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

func newTaskResponse(view *services.TaskView) taskResponse {
	task := view.Task

	checklist := task.TodoChecklist
	if checklist == nil {
		checklist = []models.TodoItem{}
	}
	attachments := task.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	return taskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Priority:           task.Priority,
		Status:             task.Status,
		DueDate:            task.DueDate,
		AssignedTo:         view.AssignedTo,
		CreatedBy:          task.CreatedBy,
		TodoChecklist:      checklist,
		Progress:           task.Progress,
		Attachments:        attachments,
		CompletedTodoCount: view.CompletedTodoCount,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

type statusSummaryResponse struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.tasks.GetTasks(c, principal, c.Query("status"))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	tasks := make([]taskResponse, len(result.Tasks))
	for i, view := range result.Tasks {
		tasks[i] = newTaskResponse(view)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"statusSummary": statusSummaryResponse{
			All:             result.StatusSummary.All,
			PendingTasks:    result.StatusSummary.PendingTasks,
			InProgressTasks: result.StatusSummary.InProgressTasks,
			CompletedTasks:  result.StatusSummary.CompletedTasks,
		},
	})
}

func (h *handlerImpl) HandleGetTaskByID(c *gin.Context) {
	view, err := h.tasks.GetTaskByID(c, c.Param("id"))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(view))
}

type createTaskRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      string            `json:"priority"`
	DueDate       time.Time         `json:"dueDate"`
	AssignedTo    []string          `json:"assignedTo"`
	TodoChecklist []models.TodoItem `json:"todoChecklist"`
	Attachments   []string          `json:"attachments"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.tasks.CreateTask(c, principal, services.CreateTaskParams{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    req.AssignedTo,
		TodoChecklist: req.TodoChecklist,
		Attachments:   req.Attachments,
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    newTaskResponse(view),
	})
}

type updateTaskRequest struct {
	Title         *string            `json:"title,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Priority      *string            `json:"priority,omitempty"`
	DueDate       *time.Time         `json:"dueDate,omitempty"`
	AssignedTo    *[]string          `json:"assignedTo,omitempty"`
	TodoChecklist *[]models.TodoItem `json:"todoChecklist,omitempty"`
	Attachments   *[]string          `json:"attachments,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.tasks.UpdateTask(c, c.Param("id"), services.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    req.AssignedTo,
		TodoChecklist: req.TodoChecklist,
		Attachments:   req.Attachments,
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    newTaskResponse(view),
	})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	err := h.tasks.DeleteTask(c, c.Param("id"))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (h *handlerImpl) HandleUpdateTaskStatus(c *gin.Context) {
	var req updateTaskStatusRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.tasks.ForceStatus(c, c.Param("id"), req.Status)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"task":    newTaskResponse(view),
	})
}

type updateTaskChecklistRequest struct {
	TodoChecklist []models.TodoItem `json:"todoChecklist"`
}

func (h *handlerImpl) HandleUpdateTaskChecklist(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	var req updateTaskChecklistRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.tasks.ReplaceChecklist(c, principal, c.Param("id"), req.TodoChecklist)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task checklist updated",
		"task":    newTaskResponse(view),
	})
}
