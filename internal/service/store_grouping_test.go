package service

import (
	"testing"

	"github.com/feira-next/internal/models"
)

func groupItem(itemID, productID, storeID uint, storeName string) CartItemDetail {
	product := &models.Product{StoreID: storeID}
	product.ID = productID
	if storeName != "" {
		product.Store = &models.Store{Name: storeName}
	}
	return CartItemDetail{ItemID: itemID, ProductID: productID, Product: product}
}

func TestGroupByStorePartition(t *testing.T) {
	items := []CartItemDetail{
		groupItem(1, 10, 1, "Hortifruti Central"),
		groupItem(2, 20, 2, "Mercearia do Bairro"),
		groupItem(3, 30, 1, "Hortifruti Central"),
	}
	groups := GroupByStore(items)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].StoreID != 1 || len(groups[0].Items) != 2 {
		t.Fatalf("group 0 = store %d with %d items, want store 1 with 2", groups[0].StoreID, len(groups[0].Items))
	}
	if groups[1].StoreID != 2 || len(groups[1].Items) != 1 {
		t.Fatalf("group 1 = store %d with %d items, want store 2 with 1", groups[1].StoreID, len(groups[1].Items))
	}
	if groups[0].Items[0].ItemID != 1 || groups[0].Items[1].ItemID != 3 {
		t.Fatal("items within a group must keep input order")
	}
	if groups[0].StoreName != "Hortifruti Central" {
		t.Fatalf("store name = %q", groups[0].StoreName)
	}
}

func TestGroupByStoreDropsOrphans(t *testing.T) {
	noProduct := CartItemDetail{ItemID: 1}
	noStore := groupItem(2, 20, 0, "")
	ok := groupItem(3, 30, 5, "")

	groups := GroupByStore([]CartItemDetail{noProduct, noStore, ok})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0].Items) != 1 || groups[0].Items[0].ItemID != 3 {
		t.Fatal("only the item with product and store must be grouped")
	}
}

func TestGroupByStorePlaceholderLabel(t *testing.T) {
	groups := GroupByStore([]CartItemDetail{groupItem(1, 10, 7, "")})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].StoreName != "Loja 7" {
		t.Fatalf("placeholder label = %q, want \"Loja 7\"", groups[0].StoreName)
	}
}

func TestGroupByStoreLateStoreMetadata(t *testing.T) {
	first := groupItem(1, 10, 7, "")
	second := groupItem(2, 20, 7, "Padaria Sete")
	groups := GroupByStore([]CartItemDetail{first, second})

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].StoreName != "Padaria Sete" {
		t.Fatalf("store name = %q, want resolved name from later item", groups[0].StoreName)
	}
}
