package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.Category{}, &models.Product{}, &models.DeliveryZone{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newProductServiceForTest(db *gorm.DB) *ProductService {
	return NewProductService(
		repository.NewProductRepository(db),
		NewDeliveryZoneService(repository.NewDeliveryZoneRepository(db)),
		NewPromotionEvaluator(time.UTC),
	)
}

func TestCreateAdminKeepsExplicitInactive(t *testing.T) {
	db := newProductTestDB(t, "product_create_inactive")
	svc := newProductServiceForTest(db)

	inactive := false
	product, err := svc.CreateAdmin(ProductInput{
		StoreID:     1,
		CategoryID:  1,
		Slug:        "produto-pausado",
		Name:        "Produto Pausado",
		PriceAmount: decimal.NewFromInt(10),
		IsActive:    &inactive,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 显式下架创建不能被列默认值翻转成上架
	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.IsActive {
		t.Fatal("product created with IsActive=false must stay inactive after insert")
	}
}

func TestListPublicCEPFilterTotalAndPaging(t *testing.T) {
	db := newProductTestDB(t, "product_cep_filter")
	svc := newProductServiceForTest(db)

	covered := seedProduct(t, db, 10)
	alsoCovered := seedProduct(t, db, 10)
	if err := db.Model(&models.Product{}).Where("id = ?", alsoCovered.ID).
		Update("store_id", covered.StoreID).Error; err != nil {
		t.Fatalf("move product failed: %v", err)
	}
	outOfArea := seedProduct(t, db, 10)

	zones := []models.DeliveryZone{
		{StoreID: covered.StoreID, CEPStart: "01000000", CEPEnd: "01999999", IsActive: true},
		{StoreID: outOfArea.StoreID, CEPStart: "02000000", CEPEnd: "02999999", IsActive: true},
	}
	for i := range zones {
		if err := db.Create(&zones[i]).Error; err != nil {
			t.Fatalf("create zone failed: %v", err)
		}
	}

	// CEP 过滤下推 SQL：total 是过滤后的全量，分页照常生效
	views, total, err := svc.ListPublic(context.Background(), ListPublicInput{
		CEP: "01310-100", Page: 1, PageSize: 1,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2 products from the covering store", total)
	}
	if len(views) != 1 {
		t.Fatalf("page has %d products, want page size 1", len(views))
	}
	for _, v := range views {
		if v.StoreID == outOfArea.StoreID {
			t.Fatalf("product %d from a non-delivering store leaked into the page", v.ID)
		}
	}

	// 未配置区间的商家按全域配送，不被 CEP 过滤排除
	everywhere := seedProduct(t, db, 10)
	views, total, err = svc.ListPublic(context.Background(), ListPublicInput{
		CEP: "09000-000", Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want only the store without zones", total)
	}
	if len(views) != 1 || views[0].ID != everywhere.ID {
		t.Fatalf("views = %+v, want the unconfigured store's product", views)
	}
}
