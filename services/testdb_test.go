package services

import (
	"path/filepath"
	"testing"

	"pillar-log-system/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.Endorsement{},
		&models.WeeklyReview{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) *models.User {
	t.Helper()
	user := models.User{
		ID:       id,
		Username: username,
		Domain:   models.DomainDev,
		Goals: models.Goals{
			MainQuest: "ship the product",
			TheEnemy:  "doomscrolling",
		},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}
