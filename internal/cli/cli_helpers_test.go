package cli

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cyclekit/cyclekit/internal/db"
	"github.com/cyclekit/cyclekit/internal/models"
	"github.com/cyclekit/cyclekit/internal/services"
)

func newTestDatabase(t *testing.T) (string, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cyclekit-cli-test.db")
	database, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return path, database
}

func createTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("StrongPass1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Email: email, PasswordHash: string(hash), CreatedAt: time.Now()}
	if err := db.NewUserRepository(database).Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func startTestPeriod(t *testing.T, database *gorm.DB, userID uint, start string, end string) {
	t.Helper()

	startDay, err := services.ParseDate(start)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	endDay, err := services.ParseDate(end)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	if _, err := services.NewPeriodService(db.NewPeriodRepository(database)).Start(userID, startDay, &endDay); err != nil {
		t.Fatalf("start period: %v", err)
	}
}
