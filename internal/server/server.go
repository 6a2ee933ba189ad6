package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskmanagement/internal/auth"
	"taskmanagement/internal/client/camunda"
	"taskmanagement/internal/client/roleassignment"
	"taskmanagement/internal/config"
	"taskmanagement/internal/database"
	"taskmanagement/internal/handler"
	"taskmanagement/internal/metrics"
	"taskmanagement/internal/middleware"
	"taskmanagement/internal/repository"
	"taskmanagement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *logrus.Logger
}

func Init(cfg *config.Config, log *logrus.Logger) (*Server, error) {
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	log.Info("✅ Connected to database")

	if cfg.Migrations.RunOnBoot {
		if err := database.MigrateUp(cfg.Migrations.Dir, cfg.Database.URL()); err != nil {
			return nil, err
		}
		log.WithField("dir", cfg.Migrations.Dir).Info("✅ Migrations applied")
	}

	return &Server{
		Engine: NewRouter(cfg, db, log),
		DB:     db,
		Config: cfg,
		Log:    log,
	}, nil
}

// NewRouter wires repositories, downstream clients, services and handlers
// onto a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	entry := logrus.NewEntry(log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(entry))

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, cfg.Auth.ServiceName)

	// Repositories
	taskRepo := repository.NewTaskRepository(db)
	searchRepo := repository.NewSearchRepository(db)

	// Downstream clients
	roles := roleassignment.New(cfg.RoleAssignment.BaseURL, cfg.RoleAssignment.Timeout, tokens)
	workflow := camunda.New(cfg.Camunda.BaseURL, cfg.Camunda.Timeout, tokens)

	// Services
	assigner := service.NewAutoAssignment(roles, workflow, entry)
	taskService := service.NewTaskService(taskRepo, assigner, entry)
	searchService := service.NewSearchService(searchRepo, taskRepo, roles, entry)
	operationService := service.NewTaskOperationService(taskRepo, assigner,
		service.ConflictPolicy(
			cfg.Reconfiguration.MaxAttempts,
			cfg.Reconfiguration.BackoffBase,
			cfg.Reconfiguration.BackoffMax,
		), entry)

	// Handlers
	handler.RegisterValidators()
	taskHandler := handler.NewTaskHandler(taskService, searchService, entry)
	operationHandler := handler.NewOperationHandler(operationService, entry)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.POST("/task", taskHandler.Search)
		authorized.POST("/task/operation", operationHandler.Perform)
		authorized.DELETE("/task/delete", taskHandler.DeleteCaseTasks)
		authorized.GET("/task/:id", taskHandler.GetByID)
		authorized.POST("/task/:id/initiation", taskHandler.Initiate)
		authorized.POST("/task/:id/configuration", taskHandler.Configure)
	}

	return r
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.WithField("port", s.Config.Server.Port).Info("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	s.Log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	s.Log.Info("✅ Server exited properly")
	return nil
}
