package main

import (
	"time"

	"github.com/feira-next/internal/config"
	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 商家
	stores := []models.Store{
		{Slug: "hortifruti-central", Name: "Hortifruti Central", CNPJ: "12.345.678/0001-90", IsActive: true, SortOrder: 1},
		{Slug: "emporio-da-serra", Name: "Empório da Serra", CNPJ: "98.765.432/0001-10", IsActive: true, SortOrder: 2},
		{Slug: "casa-do-construtor", Name: "Casa do Construtor", CNPJ: "11.222.333/0001-44", IsActive: true, SortOrder: 3},
	}
	for _, store := range stores {
		var existing models.Store
		if err := models.DB.Where("slug = ?", store.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&store).Error; err != nil {
				stdLog.Printf("Failed to create store %s: %v", store.Slug, err)
			} else {
				stdLog.Printf("Created store: %s", store.Slug)
			}
		} else {
			stdLog.Printf("Store already exists: %s", store.Slug)
		}
	}

	storeIDs := map[string]uint{}
	var storeList []models.Store
	if err := models.DB.Find(&storeList).Error; err != nil {
		stdLog.Fatalf("Failed to load stores: %v", err)
	}
	for _, store := range storeList {
		storeIDs[store.Slug] = store.ID
	}

	// 分类
	categories := []models.Category{
		{Slug: "frutas-legumes", Name: "Frutas e Legumes", SortOrder: 1},
		{Slug: "mercearia", Name: "Mercearia", SortOrder: 2},
		{Slug: "construcao", Name: "Construção", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 商品（含一个进行中的促销和一个即将结束的促销）
	now := time.Now()
	promoEndSoon := now.Add(45 * time.Minute)
	promoEndLater := now.Add(72 * time.Hour)
	promoStart := now.Add(-24 * time.Hour)
	promoEnded := now.Add(-2 * time.Hour)

	products := []models.Product{
		{
			StoreID:            storeIDs["hortifruti-central"],
			CategoryID:         categoryIDs["frutas-legumes"],
			Slug:               "banana-prata-kg",
			Name:               "Banana Prata",
			Description:        "Banana prata fresca, vendida por quilo.",
			PriceAmount:        models.NewMoneyFromDecimal(decimal.NewFromFloat(7.90)),
			PromoPriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(5.90)),
			PromoActive:        true,
			PromoStartsAt:      &promoStart,
			PromoEndsAt:        &promoEndLater,
			Stock:              models.NewQuantityFromDecimal(decimal.NewFromInt(120)),
			UnitType:           constants.UnitTypeWeight,
			UnitStep:           models.NewQuantityFromDecimal(decimal.NewFromFloat(0.5)),
			PointsConsumer:     5,
			PointsProfessional: 8,
			IsActive:           true,
			SortOrder:          1,
		},
		{
			StoreID:            storeIDs["hortifruti-central"],
			CategoryID:         categoryIDs["frutas-legumes"],
			Slug:               "tomate-italiano-kg",
			Name:               "Tomate Italiano",
			Description:        "Tomate italiano maduro, ideal para molhos.",
			PriceAmount:        models.NewMoneyFromDecimal(decimal.NewFromFloat(9.50)),
			PromoPriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(6.90)),
			PromoActive:        true,
			PromoStartsAt:      &promoStart,
			PromoEndsAt:        &promoEndSoon,
			Stock:              models.NewQuantityFromDecimal(decimal.NewFromInt(80)),
			UnitType:           constants.UnitTypeWeight,
			UnitStep:           models.NewQuantityFromDecimal(decimal.NewFromFloat(0.25)),
			PointsConsumer:     4,
			PointsProfessional: 6,
			IsActive:           true,
			SortOrder:          2,
		},
		{
			StoreID:            storeIDs["emporio-da-serra"],
			CategoryID:         categoryIDs["mercearia"],
			Slug:               "cafe-torrado-500g",
			Name:               "Café Torrado e Moído 500g",
			Description:        "Café 100% arábica torrado na serra.",
			PriceAmount:        models.NewMoneyFromDecimal(decimal.NewFromFloat(24.90)),
			Stock:              models.NewQuantityFromDecimal(decimal.NewFromInt(60)),
			UnitType:           constants.UnitTypePiece,
			UnitStep:           models.NewQuantityFromDecimal(decimal.NewFromInt(1)),
			PointsConsumer:     12,
			PointsProfessional: 18,
			IsActive:           true,
			SortOrder:          3,
		},
		{
			StoreID:            storeIDs["emporio-da-serra"],
			CategoryID:         categoryIDs["mercearia"],
			Slug:               "azeite-extra-virgem-500ml",
			Name:               "Azeite Extra Virgem 500ml",
			Description:        "Azeite de oliva extra virgem, acidez 0,3%.",
			PriceAmount:        models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
			PromoPriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(29.90)),
			PromoActive:        true,
			PromoStartsAt:      &promoStart,
			PromoEndsAt:        &promoEnded,
			Stock:              models.NewQuantityFromDecimal(decimal.NewFromInt(30)),
			UnitType:           constants.UnitTypePiece,
			UnitStep:           models.NewQuantityFromDecimal(decimal.NewFromInt(1)),
			PointsConsumer:     20,
			PointsProfessional: 30,
			IsActive:           true,
			SortOrder:          4,
		},
		{
			StoreID:            storeIDs["casa-do-construtor"],
			CategoryID:         categoryIDs["construcao"],
			Slug:               "porcelanato-acetinado-m2",
			Name:               "Porcelanato Acetinado",
			Description:        "Porcelanato acetinado 80x80, vendido por metro quadrado.",
			PriceAmount:        models.NewMoneyFromDecimal(decimal.NewFromFloat(89.90)),
			Stock:              models.NewQuantityFromDecimal(decimal.NewFromFloat(350.5)),
			UnitType:           constants.UnitTypeArea,
			UnitStep:           models.NewQuantityFromDecimal(decimal.NewFromFloat(1.44)),
			PointsConsumer:     40,
			PointsProfessional: 75,
			IsActive:           true,
			SortOrder:          5,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 配送区间（Casa do Construtor 仅配送圣保罗首都圈）
	zones := []models.DeliveryZone{
		{StoreID: storeIDs["casa-do-construtor"], Label: "São Paulo Capital", CEPStart: "01000000", CEPEnd: "05999999", IsActive: true},
		{StoreID: storeIDs["casa-do-construtor"], Label: "Zona Leste", CEPStart: "08000000", CEPEnd: "08499999", IsActive: true},
	}
	for _, zone := range zones {
		var existing models.DeliveryZone
		if err := models.DB.Where("store_id = ? AND cep_start = ?", zone.StoreID, zone.CEPStart).First(&existing).Error; err != nil {
			if err := models.DB.Create(&zone).Error; err != nil {
				stdLog.Printf("Failed to create delivery zone %s: %v", zone.Label, err)
			} else {
				stdLog.Printf("Created delivery zone: %s", zone.Label)
			}
		} else {
			stdLog.Printf("Delivery zone already exists: %s", zone.Label)
		}
	}

	// 优惠券
	couponEnds := now.AddDate(0, 1, 0)
	coupons := []models.Coupon{
		{
			Code:         "BEMVINDO10",
			Type:         constants.CouponTypePercent,
			Value:        models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MinAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			MaxDiscount:  models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
			UsageLimit:   1000,
			PerUserLimit: 1,
			EndsAt:       &couponEnds,
			IsActive:     true,
		},
		{
			Code:      "FRETE15",
			Type:      constants.CouponTypeFixed,
			Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			MinAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			IsActive:  true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Println("Seed finished")
}
