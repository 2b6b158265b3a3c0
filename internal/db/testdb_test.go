package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(filepath.Join(t.TempDir(), "pursue-test.db"))
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

	return database
}

func seedUser(t *testing.T, database *gorm.DB, email string, tier string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  "Test User",
		Tier:         tier,
		Timezone:     "UTC",
		CreatedAt:    time.Now().UTC(),
	}
	if err := NewUserRepository(database).Create(&user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func seedGroup(t *testing.T, database *gorm.DB, ownerID uint, name string) models.Group {
	t.Helper()

	group := models.Group{
		PublicID:   uuid.NewString(),
		Name:       name,
		OwnerID:    ownerID,
		InviteCode: uuid.NewString(),
	}
	if err := NewGroupRepository(database).CreateGroupWithCreator(&group, models.MaxGroupsPremiumTier); err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	return group
}

func seedGoal(t *testing.T, database *gorm.DB, groupID uint, actorID uint, title string, cadence string, metricType string) models.Goal {
	t.Helper()

	goal := models.Goal{
		PublicID:   uuid.NewString(),
		GroupID:    groupID,
		Title:      title,
		Cadence:    cadence,
		MetricType: metricType,
	}
	if err := NewGoalRepository(database).CreateWithCap(&goal, actorID, models.MaxGoalsPerGroup); err != nil {
		t.Fatalf("seed goal %s: %v", title, err)
	}
	return goal
}

func dayKey(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func countRows(t *testing.T, database *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var count int64
	if err := database.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
