package maintenance

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newMaintenanceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.MaintenanceRecord{}, &models.User{}, &models.DeliveryZone{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestRunnerAppliesOnce(t *testing.T) {
	db := newMaintenanceTestDB(t, "maintenance_once")
	runner := NewRunner(db, repository.NewMaintenanceRepository(db))

	runs := 0
	tasks := []Task{{
		Name: "test_counter",
		Run: func(_ *gorm.DB) error {
			runs++
			return nil
		},
	}}

	if err := runner.RunAll(tasks); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := runner.RunAll(tasks); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if runs != 1 {
		t.Fatalf("task ran %d times, want exactly 1", runs)
	}
}

func TestRunnerRollsBackFailedTask(t *testing.T) {
	db := newMaintenanceTestDB(t, "maintenance_rollback")
	runner := NewRunner(db, repository.NewMaintenanceRepository(db))

	boom := errors.New("boom")
	tasks := []Task{{
		Name: "test_failing",
		Run: func(tx *gorm.DB) error {
			user := &models.User{Email: "falha@example.com", PasswordHash: "x", Name: "F"}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			return boom
		},
	}}

	if err := runner.RunAll(tasks); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if users != 0 {
		t.Fatalf("users = %d, want 0 after rollback", users)
	}
	var records int64
	if err := db.Model(&models.MaintenanceRecord{}).Count(&records).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if records != 0 {
		t.Fatal("failed task must not be recorded in the ledger")
	}
}

func TestNormalizeUserCEPs(t *testing.T) {
	db := newMaintenanceTestDB(t, "maintenance_cep")
	runner := NewRunner(db, repository.NewMaintenanceRepository(db))

	users := []models.User{
		{Email: "a@example.com", PasswordHash: "x", Name: "A", CEP: "01310-100"},
		{Email: "b@example.com", PasswordHash: "x", Name: "B", CEP: "22041080"},
		{Email: "c@example.com", PasswordHash: "x", Name: "C", CEP: "123"},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("create user failed: %v", err)
		}
	}

	if err := runner.RunAll(DefaultTasks()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var got []models.User
	if err := db.Order("id asc").Find(&got).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got[0].CEP != "01310100" {
		t.Fatalf("cep = %q, want separators stripped", got[0].CEP)
	}
	if got[1].CEP != "22041080" {
		t.Fatalf("cep = %q, want untouched", got[1].CEP)
	}
	if got[2].CEP != "" {
		t.Fatalf("cep = %q, want unrecoverable value cleared", got[2].CEP)
	}
}
