package public

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/mall-next/internal/constants"
	"github.com/mall-next/internal/ecpay"
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/provider"
	"github.com/mall-next/internal/repository"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCallbackHandler(t *testing.T, name string) (*Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_callback_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	oldDB := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = oldDB
	})

	cfg := &ecpay.PaymentConfig{
		MerchantID:    "2000132",
		HashKey:       "5294y06JbISpM5x9",
		HashIV:        "v77hoKGq4kWxNNIS",
		GatewayURL:    "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5",
		ReturnURL:     "https://example.com/api/v1/payments/callback",
		ClientBackURL: "https://example.com/orders",
	}
	paymentService := service.NewPaymentService(repository.NewOrderRepository(db), cfg, nil)
	return &Handler{Container: &provider.Container{PaymentService: paymentService}}, db
}

func postCallback(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	h.PaymentCallback(c)
	return w
}

func callbackForm(tradeNo, rtnCode string) url.Values {
	form := url.Values{}
	form.Set("MerchantID", "2000132")
	form.Set("MerchantTradeNo", tradeNo)
	form.Set("RtnCode", rtnCode)
	form.Set("RtnMsg", "交易成功")
	form.Set("TradeAmt", "1990")
	params := make(map[string]string, len(form))
	for key := range form {
		params[key] = form.Get(key)
	}
	mac := ecpay.NewCheckMac("5294y06JbISpM5x9", "v77hoKGq4kWxNNIS")
	form.Set(ecpay.CheckMacValueKey, mac.Generate(params))
	return form
}

// 绿界按固定字面值判断通知是否送达，应答非 1|OK 会触发重送
func TestPaymentCallbackAcksUnknownTradeNo(t *testing.T) {
	h, db := setupCallbackHandler(t, "unknown")

	w := postCallback(t, h, callbackForm("missing0000000000000", constants.ECPayRtnCodeSuccess).Encode())
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Body.String(); got != constants.ECPayCallbackAck {
		t.Fatalf("expected body %q, got %q", constants.ECPayCallbackAck, got)
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected orders untouched, got %d rows", count)
	}
}

func TestPaymentCallbackAcksMalformedBody(t *testing.T) {
	h, db := setupCallbackHandler(t, "malformed")

	// %zz 不是合法转义，ParseForm 必然失败
	w := postCallback(t, h, "MerchantTradeNo=%zz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Body.String(); got != constants.ECPayCallbackAck {
		t.Fatalf("expected body %q, got %q", constants.ECPayCallbackAck, got)
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected orders untouched, got %d rows", count)
	}
}

func TestPaymentCallbackAcksAndMarksPaid(t *testing.T) {
	h, db := setupCallbackHandler(t, "success")
	order := models.Order{
		UserID:          7,
		TotalPrice:      models.NewMoneyFromInt(1990),
		Status:          constants.OrderStatusUnpaid,
		MerchantTradeNo: "mfnpaid0000000000abc",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	w := postCallback(t, h, callbackForm(order.MerchantTradeNo, constants.ECPayRtnCodeSuccess).Encode())
	if got := w.Body.String(); got != constants.ECPayCallbackAck {
		t.Fatalf("expected body %q, got %q", constants.ECPayCallbackAck, got)
	}

	var updated models.Order
	if err := db.First(&updated, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPaid {
		t.Fatalf("expected order paid, got %s", updated.Status)
	}
	if updated.PaidAt == nil {
		t.Fatal("expected paid_at to be set")
	}
}
