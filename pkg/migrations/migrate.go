package main

import (
	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

func main() {
	if db.DB == nil {
		logger.Fatal("Database connection required, set the POSTGRES_* environment variables")
	}

	// dropTables()
	createTables()
	seedAdmin()

	logger.Info("Migrated.")
}

func dropTables() {
	db.DB.Migrator().DropTable(
		&models.User{},
		&models.SicboBet{},
		&models.RoundHistoryEntry{},
		&models.OutcomeOverride{},
		&models.Setting{},
		&models.FundsRequest{},
	)
}

func createTables() {
	db.DB.AutoMigrate(
		&models.User{},
		&models.SicboBet{},
		&models.RoundHistoryEntry{},
		&models.OutcomeOverride{},
		&models.Setting{},
		&models.FundsRequest{},
	)
}

func seedAdmin() {
	exists, err := models.CheckIfUserExistsByUsername("admin")
	if err != nil {
		logger.Fatal("%v", err)
	}
	if exists {
		return
	}

	admin := models.User{
		Username: "admin",
		Password: middleware.HashPassword("admin"),
		IsAdmin:  true,
	}
	if err := db.DB.Create(&admin).Error; err != nil {
		logger.Fatal("%v", err)
	}
	logger.Info("Seeded admin user, change the password after first login")
}
