package main

import (
	"log"

	_ "taskmanagement/docs"
	"taskmanagement/internal/config"
	"taskmanagement/internal/logging"
	"taskmanagement/internal/server"
)

// @title           Task Management API
// @version         1.0
// @description     Task search, initiation, configuration and reconfiguration with auto-assignment.

// @host      localhost:8087
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("server initialization failed")
	}

	if err := s.Run(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
