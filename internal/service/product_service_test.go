package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductModel{}, &models.ProductImage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newProductServiceForTest(db *gorm.DB) *ProductService {
	return NewProductService(repository.NewProductRepository(db))
}

func boolPtr(v bool) *bool {
	return &v
}

func TestCreateProductCascades(t *testing.T) {
	db := setupProductServiceDB(t, "create")
	svc := newProductServiceForTest(db)

	product, err := svc.Create(ProductInput{
		Name:        " 无线蓝牙耳机 ",
		Description: "高品质音质",
		Models: []ProductModelInput{
			{Name: "标准版", Price: "990", Stock: 50},
			{Name: "降噪版", Price: "1490.50", Stock: 30, IsActive: boolPtr(false)},
		},
		Images: []ProductImageInput{
			{URL: "https://cdn.example.com/a.jpg", SortOrder: 0},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if product.Name != "无线蓝牙耳机" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}

	reloaded, err := svc.AdminGet(product.ID)
	if err != nil {
		t.Fatalf("AdminGet error: %v", err)
	}
	if len(reloaded.Models) != 2 || len(reloaded.Images) != 1 {
		t.Fatalf("expected cascaded models and images, got %d/%d", len(reloaded.Models), len(reloaded.Images))
	}
	if !reloaded.Models[1].Price.Decimal.Equal(decimal.RequireFromString("1490.5")) {
		t.Fatalf("unexpected model price: %s", reloaded.Models[1].Price.String())
	}
	if reloaded.Models[1].IsActive {
		t.Fatalf("expected second model inactive")
	}
}

func TestCreateProductValidation(t *testing.T) {
	db := setupProductServiceDB(t, "validation")
	svc := newProductServiceForTest(db)

	cases := []ProductInput{
		{Name: "", Models: []ProductModelInput{{Name: "a", Price: "1"}}},
		{Name: "无型号商品"},
		{Name: "坏价格", Models: []ProductModelInput{{Name: "a", Price: "abc"}}},
		{Name: "负价格", Models: []ProductModelInput{{Name: "a", Price: "-1"}}},
		{Name: "空图片", Models: []ProductModelInput{{Name: "a", Price: "1"}}, Images: []ProductImageInput{{URL: " "}}},
	}
	for i, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got: %v", i, err)
		}
	}
}

func TestPublicListOnlyActive(t *testing.T) {
	db := setupProductServiceDB(t, "public_list")
	svc := newProductServiceForTest(db)

	if _, err := svc.Create(ProductInput{Name: "上架商品", Models: []ProductModelInput{{Name: "默认", Price: "100"}}}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(ProductInput{Name: "下架商品", IsActive: boolPtr(false), Models: []ProductModelInput{{Name: "默认", Price: "100"}}}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	items, total, err := svc.PublicList(1, 10, "")
	if err != nil {
		t.Fatalf("PublicList error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "上架商品" {
		t.Fatalf("expected only active product, got total=%d items=%+v", total, items)
	}

	// 搜索按名称模糊匹配
	items, total, err = svc.PublicList(1, 10, "不存在")
	if err != nil {
		t.Fatalf("PublicList with search error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected no match, got total=%d", total)
	}
}

func TestPublicGetHidesInactive(t *testing.T) {
	db := setupProductServiceDB(t, "public_get")
	svc := newProductServiceForTest(db)

	inactive, err := svc.Create(ProductInput{Name: "下架商品", IsActive: boolPtr(false), Models: []ProductModelInput{{Name: "默认", Price: "100"}}})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.PublicGet(inactive.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected inactive product hidden, got: %v", err)
	}
	// 管理端仍可见
	if _, err := svc.AdminGet(inactive.ID); err != nil {
		t.Fatalf("AdminGet error: %v", err)
	}
}

func TestUpdateProductReplacesChildren(t *testing.T) {
	db := setupProductServiceDB(t, "update")
	svc := newProductServiceForTest(db)

	product, err := svc.Create(ProductInput{
		Name:   "手表",
		Models: []ProductModelInput{{Name: "41mm", Price: "4990", Stock: 20}},
		Images: []ProductImageInput{{URL: "https://cdn.example.com/old.jpg"}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := svc.Update(product.ID, ProductInput{
		Name:   "智能手表",
		Models: []ProductModelInput{{Name: "45mm", Price: "5490", Stock: 15}},
		Images: []ProductImageInput{{URL: "https://cdn.example.com/new.jpg"}},
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.ID != product.ID {
		t.Fatalf("expected same product id")
	}

	reloaded, err := svc.AdminGet(product.ID)
	if err != nil {
		t.Fatalf("AdminGet error: %v", err)
	}
	if reloaded.Name != "智能手表" {
		t.Fatalf("expected updated name, got %q", reloaded.Name)
	}
	if len(reloaded.Models) != 1 || reloaded.Models[0].Name != "45mm" {
		t.Fatalf("expected replaced models, got %+v", reloaded.Models)
	}
	if len(reloaded.Images) != 1 || reloaded.Images[0].URL != "https://cdn.example.com/new.jpg" {
		t.Fatalf("expected replaced images, got %+v", reloaded.Images)
	}

	if _, err := svc.Update(999, ProductInput{Name: "x", Models: []ProductModelInput{{Name: "a", Price: "1"}}}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found for missing product, got: %v", err)
	}
}

func TestDeleteByIDs(t *testing.T) {
	db := setupProductServiceDB(t, "delete")
	svc := newProductServiceForTest(db)

	first, err := svc.Create(ProductInput{Name: "商品一", Models: []ProductModelInput{{Name: "默认", Price: "100"}}})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	second, err := svc.Create(ProductInput{Name: "商品二", Models: []ProductModelInput{{Name: "默认", Price: "100"}}})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.DeleteByIDs(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty ids, got: %v", err)
	}
	if err := svc.DeleteByIDs([]uint{first.ID, second.ID}); err != nil {
		t.Fatalf("DeleteByIDs error: %v", err)
	}

	if _, err := svc.AdminGet(first.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected deleted product gone, got: %v", err)
	}
}
