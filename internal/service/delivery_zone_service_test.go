package service

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

func newZoneTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.DeliveryZone{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestNormalizeCEP(t *testing.T) {
	cases := []struct {
		in   string
		out  string
		fail bool
	}{
		{"01310-100", "01310100", false},
		{"01310100", "01310100", false},
		{" 01.310-100 ", "01310100", false},
		{"1310100", "", true},
		{"013101000", "", true},
		{"abcdefgh", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := NormalizeCEP(c.in)
		if c.fail {
			if !errors.Is(err, ErrInvalidCEP) {
				t.Fatalf("NormalizeCEP(%q) err = %v, want ErrInvalidCEP", c.in, err)
			}
			continue
		}
		if err != nil || got != c.out {
			t.Fatalf("NormalizeCEP(%q) = (%q, %v), want %q", c.in, got, err, c.out)
		}
	}
}

func TestStoreDelivers(t *testing.T) {
	db := newZoneTestDB(t, "zone_delivers")
	svc := NewDeliveryZoneService(repository.NewDeliveryZoneRepository(db))

	zone := &models.DeliveryZone{
		StoreID: 1, Label: "São Paulo Centro",
		CEPStart: "01000000", CEPEnd: "01999999", IsActive: true,
	}
	if err := db.Create(zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	ok, err := svc.StoreDelivers(1, "01310-100")
	if err != nil || !ok {
		t.Fatalf("in-range CEP = (%v, %v), want delivered", ok, err)
	}
	ok, err = svc.StoreDelivers(1, "22041-080")
	if err != nil || ok {
		t.Fatalf("out-of-range CEP = (%v, %v), want not delivered", ok, err)
	}

	// 未配置区间的商家视为全域配送
	ok, err = svc.StoreDelivers(2, "22041-080")
	if err != nil || !ok {
		t.Fatalf("store without zones = (%v, %v), want delivered anywhere", ok, err)
	}

	if _, err := svc.StoreDelivers(1, "123"); !errors.Is(err, ErrInvalidCEP) {
		t.Fatalf("err = %v, want ErrInvalidCEP", err)
	}
}

func TestStoreDeliversIgnoresInactiveZones(t *testing.T) {
	db := newZoneTestDB(t, "zone_inactive")
	svc := NewDeliveryZoneService(repository.NewDeliveryZoneRepository(db))

	zone := &models.DeliveryZone{
		StoreID: 1, CEPStart: "01000000", CEPEnd: "01999999", IsActive: false,
	}
	if err := db.Create(zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	// 仅有停用区间等同于未配置，按全域配送处理
	ok, err := svc.StoreDelivers(1, "05000-000")
	if err != nil || !ok {
		t.Fatalf("store with only inactive zones = (%v, %v), want delivered", ok, err)
	}
}

func TestZoneCreateKeepsExplicitInactive(t *testing.T) {
	db := newZoneTestDB(t, "zone_create_inactive")
	svc := NewDeliveryZoneService(repository.NewDeliveryZoneRepository(db))

	inactive := false
	zone, err := svc.Create(ZoneInput{
		StoreID:  1,
		Label:    "Zona Norte",
		CEPStart: "02000-000",
		CEPEnd:   "02999-999",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 显式停用创建不能被列默认值翻转成启用
	var got models.DeliveryZone
	if err := db.First(&got, zone.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.IsActive {
		t.Fatal("zone created with IsActive=false must stay inactive after insert")
	}
}

func TestZoneCreateNormalizesBounds(t *testing.T) {
	db := newZoneTestDB(t, "zone_create")
	svc := NewDeliveryZoneService(repository.NewDeliveryZoneRepository(db))

	zone, err := svc.Create(ZoneInput{
		StoreID:  1,
		Label:    "Zona Sul",
		CEPStart: "04999-999",
		CEPEnd:   "04000-000",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if zone.CEPStart != "04000000" || zone.CEPEnd != "04999999" {
		t.Fatalf("bounds = [%s, %s], want normalized and ordered", zone.CEPStart, zone.CEPEnd)
	}
	if !zone.IsActive {
		t.Fatal("new zone must default to active")
	}
}

func TestStoreIDsCovering(t *testing.T) {
	db := newZoneTestDB(t, "zone_covering")
	svc := NewDeliveryZoneService(repository.NewDeliveryZoneRepository(db))

	zones := []models.DeliveryZone{
		{StoreID: 1, CEPStart: "01000000", CEPEnd: "01999999", IsActive: true},
		{StoreID: 2, CEPStart: "20000000", CEPEnd: "28999999", IsActive: true},
	}
	for i := range zones {
		if err := db.Create(&zones[i]).Error; err != nil {
			t.Fatalf("create zone failed: %v", err)
		}
	}

	covering, configured, err := svc.StoreIDsCovering("01310100")
	if err != nil {
		t.Fatalf("covering failed: %v", err)
	}
	if !covering[1] || covering[2] {
		t.Fatalf("covering = %v, want only store 1", covering)
	}
	if !configured[1] || !configured[2] {
		t.Fatalf("configured = %v, want both stores", configured)
	}
}
