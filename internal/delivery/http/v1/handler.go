package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleGetProfile(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleAdminMiddleware(c *gin.Context)

	HandleGetUsers(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTaskByID(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleUpdateTaskStatus(c *gin.Context)
	HandleUpdateTaskChecklist(c *gin.Context)

	HandleGetDashboardData(c *gin.Context)
	HandleGetUserDashboardData(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	auth      services.AuthService
	tasks     services.TaskService
	dashboard services.DashboardService
	users     services.UserService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	dashboardService services.DashboardService,
	userService services.UserService,
) Handler {
	return &handlerImpl{
		logger:    logger,
		auth:      authService,
		tasks:     taskService,
		dashboard: dashboardService,
		users:     userService,
	}
}
