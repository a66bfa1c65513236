package main

import (
	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/handler"
	"backoffice/internal/httpserver"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/pkg/db"
	"backoffice/pkg/logger"
	"backoffice/pkg/mq"
	redisclient "backoffice/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting backoffice API server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("port", cfg.Server.Port),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	issueRepo := repository.NewIssueRepository(dbConn, log)
	subtaskRepo := repository.NewSubtaskRepository(dbConn, log)
	sheetRepo := repository.NewSheetRepository(dbConn, log)
	documentRepo := repository.NewDocumentRepository(dbConn, log)
	auditRepo := repository.NewAuditRepository(dbConn, log)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	adminService := service.NewAdminService(userRepo, publisher, log)
	statsService := service.NewStatsService(issueRepo, rdb, log)
	issueService := service.NewIssueService(issueRepo, projectRepo, publisher, statsService, log)
	subtaskService := service.NewSubtaskService(subtaskRepo, issueRepo, log)

	// Handlers
	handlers := httpserver.Handlers{
		Auth:     handler.NewAuthHandler(authService, log),
		Admin:    handler.NewAdminHandler(adminService, auditRepo, log),
		Project:  handler.NewProjectHandler(projectRepo, statsService, log),
		Issue:    handler.NewIssueHandler(issueService, subtaskService, log),
		Sheet:    handler.NewSheetHandler(sheetRepo, log),
		Document: handler.NewDocumentHandler(documentRepo, cfg.Storage.Bucket, log),
	}

	router := httpserver.NewRouter(handlers, cfg.JWT.Secret, log, dbConn, publisher)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
