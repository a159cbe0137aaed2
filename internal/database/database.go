package database

import (
	"fmt"

	"cogsuite-go/internal/config"
	logging "cogsuite-go/internal/logging"
	"cogsuite-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Route GORM's own logging through zap
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// AutoMigrate creates tables, columns and foreign keys, but not custom
	// indexes; those are handled separately below.
	err := DB.AutoMigrate(
		&models.User{},
		&models.TaskRun{},
		&models.TrialEvent{},
		&models.TMTResult{},
		&models.TMTClick{},
		&models.FlankerResult{},
		&models.FlankerTrialRow{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	runsIndex := `CREATE INDEX IF NOT EXISTS idx_task_runs_query ON task_runs (user_id, task_key, created_at DESC);`
	if err := DB.Exec(runsIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on task_runs", zap.Error(err))
	}
	eventsIndex := `CREATE INDEX IF NOT EXISTS idx_trial_events_run ON trial_events (task_run_id, trial_index);`
	if err := DB.Exec(eventsIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on trial_events", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
