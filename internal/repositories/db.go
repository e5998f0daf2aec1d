package repositories

import (
	"github.com/rebeccawang123/twincity/internal/config"
	"github.com/rebeccawang123/twincity/internal/logging"
	"github.com/rebeccawang123/twincity/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	dsn := config.Envs.DB_URL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logging.L.Fatalw("Failed to connect to database", "error", err)
	}
	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.VaultBlob{},
		&models.Message{},
	)
	if err != nil {
		logging.L.Fatalw("Migration failed", "error", err)
	}
	DB = db
	logging.L.Info("Successfully connected to database")
}
