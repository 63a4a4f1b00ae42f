package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/mall-next/internal/constants"
	"github.com/mall-next/internal/ecpay"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/queue"
	"github.com/mall-next/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tradeNoCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// CheckoutResult 发起结帐结果
type CheckoutResult struct {
	MerchantTradeNo string `json:"merchant_trade_no"`
	FormHTML        string `json:"form_html"`
}

// PaymentService 金流服务
type PaymentService struct {
	orderRepo   repository.OrderRepository
	paymentCfg  *ecpay.PaymentConfig
	queueClient *queue.Client
}

// NewPaymentService 创建金流服务
func NewPaymentService(orderRepo repository.OrderRepository, paymentCfg *ecpay.PaymentConfig, queueClient *queue.Client) *PaymentService {
	return &PaymentService{
		orderRepo:   orderRepo,
		paymentCfg:  paymentCfg,
		queueClient: queueClient,
	}
}

// InitiateCheckout 为订单发起绿界结帐：生成交易编号并落库，
// 再以订单快照金额组装自动提交表单。金额取建单时计算值，不重算
func (s *PaymentService) InitiateCheckout(userID, orderID uint) (*CheckoutResult, error) {
	if userID == 0 || orderID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusPaid {
		return nil, ErrOrderStatusInvalid
	}

	tradeNo, err := generateTradeNo()
	if err != nil {
		return nil, err
	}
	// 落库失败仅告警，结帐表单照常返回，避免卡住付款流程
	if err := s.orderRepo.SetMerchantTradeNo(order.ID, tradeNo); err != nil {
		logger.Warnw("merchant_trade_no_persist_failed",
			"order_id", order.ID,
			"merchant_trade_no", tradeNo,
			"error", err,
		)
	}

	form, err := ecpay.BuildCheckoutForm(s.paymentCfg, ecpay.CheckoutInput{
		MerchantTradeNo:   tradeNo,
		MerchantTradeDate: time.Now().Format(constants.ECPayTradeDateLayout),
		TotalAmount:       order.TotalPrice.IntString(),
		TradeDesc:         "商城订单",
		ItemName:          buildItemName(order.Items),
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("payment_checkout_initiated",
		"order_id", order.ID,
		"user_id", userID,
		"merchant_trade_no", tradeNo,
		"total_amount", order.TotalPrice.IntString(),
	)
	return &CheckoutResult{MerchantTradeNo: tradeNo, FormHTML: form}, nil
}

// HandleCallback 处理绿界付款结果通知。
// 成功通知将订单置为 paid（幂等；未知交易编号为记录后忽略）；
// CheckMacValue 独立验证，不合法只告警与入队报警，不拦截状态更新。
// 无论处理结果如何，HTTP 层固定应答 1|OK
func (s *PaymentService) HandleCallback(form map[string][]string) error {
	tradeNo := strings.TrimSpace(firstFormValue(form, "MerchantTradeNo"))
	rtnCode := strings.TrimSpace(firstFormValue(form, "RtnCode"))
	log := paymentLogger(
		"merchant_trade_no", tradeNo,
		"rtn_code", rtnCode,
	)
	log.Infow("payment_callback_received")

	s.verifyCallbackMac(form, tradeNo, log)

	if rtnCode != constants.ECPayRtnCodeSuccess {
		log.Infow("payment_callback_non_success_ignored")
		return nil
	}
	if tradeNo == "" {
		log.Warnw("payment_callback_missing_trade_no")
		return nil
	}

	order, err := s.orderRepo.GetByMerchantTradeNo(tradeNo)
	if err != nil {
		log.Errorw("payment_callback_order_fetch_failed", "error", err)
		return err
	}
	if order == nil {
		log.Warnw("payment_callback_unknown_trade_no")
		s.enqueueAlert(queue.PaymentAlertPayload{
			MerchantTradeNo: tradeNo,
			Reason:          "unknown_trade_no",
		})
		return nil
	}

	// 幂等处理：已付款的订单不重复更新
	if order.Status == constants.OrderStatusPaid {
		log.Infow("payment_callback_idempotent_paid", "order_id", order.ID)
		return nil
	}

	if err := s.markOrderPaid(order); err != nil {
		log.Errorw("payment_callback_mark_paid_failed", "order_id", order.ID, "error", err)
		return err
	}
	log.Infow("payment_callback_order_paid", "order_id", order.ID)
	return nil
}

// verifyCallbackMac 独立验证回调签章，结果只影响告警不影响订单状态
func (s *PaymentService) verifyCallbackMac(form map[string][]string, tradeNo string, log *zap.SugaredLogger) {
	if err := ecpay.VerifyCallback(s.paymentCfg, form); err != nil {
		log.Warnw("payment_callback_mac_mismatch", "error", err)
		s.enqueueAlert(queue.PaymentAlertPayload{
			MerchantTradeNo: tradeNo,
			Reason:          "check_mac_mismatch",
		})
		return
	}
	log.Debugw("payment_callback_mac_verified")
}

func (s *PaymentService) markOrderPaid(order *models.Order) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		current, err := orderRepo.GetByID(order.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrOrderNotFound
		}
		if current.Status == constants.OrderStatusPaid {
			return nil
		}
		if !isTransitionAllowed(current.Status, constants.OrderStatusPaid) {
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		return orderRepo.UpdateStatus(current.ID, constants.OrderStatusPaid, map[string]interface{}{
			"paid_at":    now,
			"updated_at": now,
		})
	})
}

func (s *PaymentService) enqueueAlert(payload queue.PaymentAlertPayload) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueuePaymentAlert(payload); err != nil {
		logger.Warnw("enqueue_payment_alert_failed",
			"merchant_trade_no", payload.MerchantTradeNo,
			"reason", payload.Reason,
			"error", err,
		)
	}
}

// generateTradeNo 生成绿界交易编号：毫秒时间戳的 36 进制前缀，
// 随机小写字母数字补足 20 字符
func generateTradeNo() (string, error) {
	prefix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	if len(prefix) >= constants.ECPayTradeNoLength {
		return prefix[:constants.ECPayTradeNoLength], nil
	}
	remaining := constants.ECPayTradeNoLength - len(prefix)
	var b strings.Builder
	b.Grow(constants.ECPayTradeNoLength)
	b.WriteString(prefix)
	for i := 0; i < remaining; i++ {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(tradeNoCharset))))
		if err != nil {
			return "", err
		}
		b.WriteByte(tradeNoCharset[index.Int64()])
	}
	return b.String(), nil
}

func buildItemName(items []models.OrderItem) string {
	if len(items) == 0 {
		return "order"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s(%s) x %d", item.ProductName, item.ModelName, item.Quantity))
	}
	return strings.Join(parts, "#")
}

func paymentLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

func firstFormValue(form map[string][]string, key string) string {
	if values, ok := form[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}
