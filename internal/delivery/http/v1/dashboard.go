package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/services"
)

type dashboardStatisticsResponse struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

type dashboardChartsResponse struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

type recentTaskResponse struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Status     string               `json:"status"`
	Priority   string               `json:"priority"`
	DueDate    time.Time            `json:"dueDate"`
	CreatedAt  time.Time            `json:"createdAt"`
	AssignedTo []models.UserSummary `json:"assignedTo,omitempty"`
}

func newRecentTaskResponses(recent []services.RecentTask) []recentTaskResponse {
	responses := make([]recentTaskResponse, len(recent))
	for i, task := range recent {
		responses[i] = recentTaskResponse{
			ID:         task.ID,
			Title:      task.Title,
			Status:     task.Status,
			Priority:   task.Priority,
			DueDate:    task.DueDate,
			CreatedAt:  task.CreatedAt,
			AssignedTo: task.AssignedTo,
		}
	}
	return responses
}

func newStatisticsResponse(stats services.TaskStatistics) dashboardStatisticsResponse {
	return dashboardStatisticsResponse{
		TotalTasks:     stats.TotalTasks,
		PendingTasks:   stats.PendingTasks,
		CompletedTasks: stats.CompletedTasks,
		OverdueTasks:   stats.OverdueTasks,
	}
}

func newChartsResponse(charts services.DashboardCharts) dashboardChartsResponse {
	return dashboardChartsResponse{
		TaskDistribution:   charts.TaskDistribution,
		TaskPriorityLevels: charts.TaskPriorityLevels,
	}
}

func (h *handlerImpl) HandleGetDashboardData(c *gin.Context) {
	data, err := h.dashboard.Overview(c)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics":  newStatisticsResponse(data.Statistics),
		"charts":      newChartsResponse(data.Charts),
		"recentTasks": newRecentTaskResponses(data.RecentTasks),
	})
}

func (h *handlerImpl) HandleGetUserDashboardData(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	data, err := h.dashboard.UserOverview(c, principal.ID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productivityScore": data.ProductivityScore,
		"statistics":        newStatisticsResponse(data.Statistics),
		"charts":            newChartsResponse(data.Charts),
		"quickStats": gin.H{
			"overdue":     data.QuickStats.Overdue,
			"dueThisWeek": data.QuickStats.DueThisWeek,
			"teamMembers": data.QuickStats.TeamMembers,
		},
		"recentTasks": newRecentTaskResponses(data.RecentTasks),
	})
}
