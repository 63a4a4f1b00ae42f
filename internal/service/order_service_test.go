package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mall-next/internal/constants"
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// setupOrderServiceDB 建库并替换全局 DB，CreateOrder 的事务依赖全局连接
func setupOrderServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductModel{}, &models.ProductImage{}, &models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	oldDB := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = oldDB
	})
	return db
}

func newOrderServiceForTest(db *gorm.DB) *OrderService {
	return NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db))
}

// seedCartWithItems 准备一个含两个商品型号的购物车：990x1 + 500x2
func seedCartWithItems(t *testing.T, db *gorm.DB, userID uint) *models.Cart {
	t.Helper()
	productA, modelA := createCartTestProduct(t, db, "耳机", 990, 10)
	productB, modelB := createCartTestProduct(t, db, "充电宝", 500, 10)

	cart := models.Cart{UserID: userID, StoreID: "131386", StoreName: "信義門市", CvsType: constants.CvsTypeUnimart}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	items := []models.CartItem{
		{CartID: cart.ID, ProductID: productA.ID, ModelID: modelA.ID, Quantity: 1},
		{CartID: cart.ID, ProductID: productB.ID, ModelID: modelB.ID, Quantity: 2},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("create cart items failed: %v", err)
	}
	return &cart
}

func TestCreateOrderSnapshotsAndClearsCart(t *testing.T) {
	db := setupOrderServiceDB(t, "create")
	svc := newOrderServiceForTest(db)
	cart := seedCartWithItems(t, db, 1)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:    1,
		CartID:    cart.ID,
		StoreID:   cart.StoreID,
		StoreName: cart.StoreName,
		CvsType:   cart.CvsType,
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(1990)) {
		t.Fatalf("expected total 1990, got %s", order.TotalPrice.String())
	}
	if order.Status != constants.OrderStatusUnpaid {
		t.Fatalf("expected unpaid status, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	if order.StoreID != "131386" || order.CvsType != constants.CvsTypeUnimart {
		t.Fatalf("expected store selection carried to order, got %+v", order)
	}

	// 下单成功后购物车与购物车项整体删除
	var cartCount, itemCount int64
	if err := db.Model(&models.Cart{}).Where("id = ?", cart.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if cartCount != 0 || itemCount != 0 {
		t.Fatalf("expected cart cleared, got carts=%d items=%d", cartCount, itemCount)
	}
}

func TestCreateOrderSnapshotImmuneToPriceChange(t *testing.T) {
	db := setupOrderServiceDB(t, "snapshot")
	svc := newOrderServiceForTest(db)
	product, model := createCartTestProduct(t, db, "手表", 1000, 5)

	cart := models.Cart{UserID: 1}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, ModelID: model.ID, Quantity: 1}).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}

	order, err := svc.CreateOrder(CreateOrderInput{UserID: 1, CartID: cart.ID})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	// 建单后改价不影响订单快照
	if err := db.Model(&models.ProductModel{}).Where("id = ?", model.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.NewFromInt(9999))).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	reloaded, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !reloaded.TotalPrice.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected snapshot total 1000, got %s", reloaded.TotalPrice.String())
	}
	if !reloaded.Items[0].ModelPrice.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected snapshot price 1000, got %s", reloaded.Items[0].ModelPrice.String())
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := setupOrderServiceDB(t, "empty_cart")
	svc := newOrderServiceForTest(db)

	cart := models.Cart{UserID: 1}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := svc.CreateOrder(CreateOrderInput{UserID: 1, CartID: cart.ID}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected cart empty, got: %v", err)
	}
}

func TestCreateOrderRejectsOtherUsersCart(t *testing.T) {
	db := setupOrderServiceDB(t, "ownership")
	svc := newOrderServiceForTest(db)
	cart := seedCartWithItems(t, db, 1)

	if _, err := svc.CreateOrder(CreateOrderInput{UserID: 2, CartID: cart.ID}); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart not found for other user, got: %v", err)
	}
}

func TestCreateOrderRollsBackOnFailure(t *testing.T) {
	db := setupOrderServiceDB(t, "rollback")
	svc := newOrderServiceForTest(db)
	cart := seedCartWithItems(t, db, 1)

	// 订单项写入失败应整体回滚，购物车保持原样
	if err := db.Migrator().DropTable(&models.OrderItem{}); err != nil {
		t.Fatalf("drop order_items failed: %v", err)
	}
	if _, err := svc.CreateOrder(CreateOrderInput{UserID: 1, CartID: cart.ID}); err == nil {
		t.Fatalf("expected error when order items cannot be written")
	}

	var orderCount, itemCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders after rollback, got %d", orderCount)
	}
	if itemCount != 2 {
		t.Fatalf("expected cart items intact after rollback, got %d", itemCount)
	}
}

func TestGetUserOrderHidesOthers(t *testing.T) {
	db := setupOrderServiceDB(t, "visibility")
	svc := newOrderServiceForTest(db)
	cart := seedCartWithItems(t, db, 1)

	order, err := svc.CreateOrder(CreateOrderInput{UserID: 1, CartID: cart.ID})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	if _, err := svc.GetUserOrder(2, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for other user, got: %v", err)
	}
	got, err := svc.GetUserOrder(1, order.ID)
	if err != nil {
		t.Fatalf("GetUserOrder error: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("expected order %d, got %d", order.ID, got.ID)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupOrderServiceDB(t, "transitions")
	svc := newOrderServiceForTest(db)

	order := models.Order{UserID: 1, Status: constants.OrderStatusUnpaid, TotalPrice: models.NewMoneyFromInt(100)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 同状态为幂等空操作
	same, err := svc.UpdateStatus(order.ID, constants.OrderStatusUnpaid)
	if err != nil {
		t.Fatalf("same-status update error: %v", err)
	}
	if same.Status != constants.OrderStatusUnpaid {
		t.Fatalf("expected unpaid, got %s", same.Status)
	}

	paid, err := svc.UpdateStatus(order.ID, constants.OrderStatusPaid)
	if err != nil {
		t.Fatalf("unpaid->paid update error: %v", err)
	}
	if paid.Status != constants.OrderStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid with paid_at, got %+v", paid)
	}

	// paid 不允许回退到 unpaid
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusUnpaid); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid transition, got: %v", err)
	}
	// 未知状态拒绝
	if _, err := svc.UpdateStatus(order.ID, "shipped"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid status value, got: %v", err)
	}
}
