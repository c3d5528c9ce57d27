package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "nestio-backend/internal/api/http"
	"nestio-backend/internal/config"
	"nestio-backend/internal/jobs"
	"nestio-backend/internal/logger"
	"nestio-backend/internal/repository/postgres"
	"nestio-backend/internal/scheduler"
	"nestio-backend/internal/security"
	"nestio-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Nestio backend", "address", cfg.GetServerAddress())

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	store := postgres.NewStore(db)
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	propSvc := service.NewPropertyService(store.PropertyRepository, store.UserRepository)
	appSvc := service.NewApplicationService(store.ApplicationRepository, store.PropertyRepository, store.UserRepository, emailSvc)

	jobRunner := jobs.NewJobRunner(cfg, store.ApplicationRepository)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := httpapi.NewRouter(authSvc, propSvc, appSvc, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
