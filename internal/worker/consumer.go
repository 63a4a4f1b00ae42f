package worker

import (
	"context"
	"encoding/json"

	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/queue"
	"github.com/mall-next/internal/repository"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	orderRepo repository.OrderRepository
}

// NewConsumer 创建消费者
func NewConsumer(orderRepo repository.OrderRepository) *Consumer {
	return &Consumer{orderRepo: orderRepo}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPaymentAlert, c.handlePaymentAlert)
}

// handlePaymentAlert 输出支付回调异常报警日志，供运维告警通道消费
func (c *Consumer) handlePaymentAlert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.PaymentAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_alert_unmarshal_failed", "error", err)
		return err
	}

	kv := []interface{}{
		"merchant_trade_no", payload.MerchantTradeNo,
		"reason", payload.Reason,
	}
	if payload.ClientIP != "" {
		kv = append(kv, "client_ip", payload.ClientIP)
	}
	if c.orderRepo != nil && payload.MerchantTradeNo != "" {
		order, err := c.orderRepo.GetByMerchantTradeNo(payload.MerchantTradeNo)
		if err == nil && order != nil {
			kv = append(kv, "order_id", order.ID, "order_status", order.Status)
		}
	}
	logger.Warnw("payment_alert", kv...)
	return nil
}
