package worker

import (
	"fmt"
	"testing"
	"time"

	"github.com/feira-next/internal/config"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/provider"
	"github.com/feira-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newWorkerTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestArchiveIdleCarts(t *testing.T) {
	db := newWorkerTestDB(t, "worker_archive")

	stale := uint(1)
	fresh := uint(2)
	carts := []models.Cart{
		{UserID: stale, Status: "active", ActiveKey: &stale, LastActivityAt: time.Now().AddDate(0, 0, -30)},
		{UserID: fresh, Status: "active", ActiveKey: &fresh, LastActivityAt: time.Now()},
	}
	for i := range carts {
		if err := db.Create(&carts[i]).Error; err != nil {
			t.Fatalf("create cart failed: %v", err)
		}
	}

	consumer := NewConsumer(&provider.Container{
		Config:   &config.Config{},
		CartRepo: repository.NewCartRepository(db),
	})
	if err := consumer.ArchiveIdleCarts(15); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	var archived models.Cart
	if err := db.First(&archived, carts[0].ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if archived.Status != "archived" || archived.ActiveKey != nil || archived.ArchivedAt == nil {
		t.Fatalf("stale cart not archived: %+v", archived)
	}

	var kept models.Cart
	if err := db.First(&kept, carts[1].ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if kept.Status != "active" {
		t.Fatal("fresh cart must stay active")
	}

	// 归档后的用户再次加购应拿到新的 active 购物车
	if err := consumer.ArchiveIdleCarts(15); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
}
