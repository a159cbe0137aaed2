package main

import (
	"path/filepath"

	"cogsuite-go/internal/config"
	"cogsuite-go/internal/database"
	logger "cogsuite-go/internal/logging"
	"cogsuite-go/internal/models"
	"cogsuite-go/internal/router"
	"cogsuite-go/internal/services"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger. It falls back to built-in rotation settings until
	// the configuration is loaded.
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Load configuration (file, environment, hot reload)
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Load the task battery at startup
	battery, err := models.LoadBattery(filepath.Join("config", config.Conf.Battery.File))
	if err != nil {
		log.Fatal("Failed to load task battery", zap.Error(err))
	}

	// Live run manager plus the reaper that cancels abandoned runs
	runs := services.NewRunManager(log)
	services.NewReaper(log, runs).Start()

	// Setup router, passing the logger to it
	r := router.Setup(log, battery, runs)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
