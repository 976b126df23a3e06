package main

import (
	"edhub/config"
	"edhub/database"
	"edhub/logger"
	"edhub/repository"
	"edhub/routers"
	"edhub/scheduler"
	"edhub/services"
	"edhub/utils"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		appLog.Fatal("Error connecting to database", "driver", cfg.DBDriver, "error", err)
	}
	appLog.Info("Database connected", "driver", cfg.DBDriver)

	app := routers.NewApp(cfg, routers.Deps{
		DB:     db,
		Log:    appLog,
		Mailer: utils.NewMailer(cfg.SendgridAPIKey, cfg.EmailSenderName, cfg.EmailSender, appLog),
		Runner: utils.NewCodeRunner(cfg.CodeRunnerURL, cfg.CodeRunnerTimeout),
	}, true)

	maintenance := services.NewMaintenanceService(db, appLog,
		repository.NewCourseRepo(db, appLog),
		repository.NewProgressRepo(db, appLog),
		repository.NewReviewRepo(db, appLog),
	)
	jobs, err := scheduler.New(cfg, appLog, maintenance)
	if err != nil {
		appLog.Fatal("Error configuring scheduler", "error", err)
	}
	if jobs != nil {
		jobs.Start()
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		appLog.Info("Shutting down server")
		if jobs != nil {
			<-jobs.Stop().Done()
		}
		if err := app.Shutdown(); err != nil {
			appLog.Error("Server shutdown failed", "error", err)
		}
	}()

	appLog.Info("Server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("Server stopped", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
