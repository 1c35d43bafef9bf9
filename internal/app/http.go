package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/avdeyev/go-taskboard/internal/config"
	v1 "github.com/avdeyev/go-taskboard/internal/delivery/http/v1"
	"github.com/avdeyev/go-taskboard/internal/services"
	"github.com/avdeyev/go-taskboard/internal/storage/postgres"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	taskStore := postgres.NewTaskStore(globalLogger, globalPostgresPool)
	userStore := postgres.NewUserStore(globalLogger, globalPostgresPool)

	authService := services.NewAuthService(
		globalLogger,
		userStore,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.TokenTTL,
		cfg.Auth.AdminInviteToken,
	)
	taskService := services.NewTaskService(globalLogger, taskStore, userStore)
	dashboardService := services.NewDashboardService(globalLogger, taskStore, userStore)
	userService := services.NewUserService(globalLogger, userStore, taskStore)

	v1Handler := v1.New(
		globalLogger,
		authService,
		taskService,
		dashboardService,
		userService,
	)
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.GET("/profile", v1Handler.HandleAuthMiddleware, v1Handler.HandleGetProfile)

	userRouter := router.Group("/users")
	userRouter.Use(v1Handler.HandleAuthMiddleware, v1Handler.HandleAdminMiddleware)
	userRouter.GET("", v1Handler.HandleGetUsers)

	taskRouter := router.Group("/tasks")
	taskRouter.Use(v1Handler.HandleAuthMiddleware)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.POST("", v1Handler.HandleAdminMiddleware, v1Handler.HandleCreateTask)
	taskRouter.GET("/dashboard-data", v1Handler.HandleAdminMiddleware, v1Handler.HandleGetDashboardData)
	taskRouter.GET("/user-dashboard-data", v1Handler.HandleGetUserDashboardData)
	taskRouter.GET("/:id", v1Handler.HandleGetTaskByID)
	taskRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", v1Handler.HandleAdminMiddleware, v1Handler.HandleDeleteTask)
	taskRouter.PUT("/:id/status", v1Handler.HandleUpdateTaskStatus)
	taskRouter.PUT("/:id/todo", v1Handler.HandleUpdateTaskChecklist)
}
