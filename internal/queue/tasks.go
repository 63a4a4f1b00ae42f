package queue

import (
	"encoding/json"

	"github.com/mall-next/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskPaymentAlert 支付回调异常报警任务
const TaskPaymentAlert = constants.TaskPaymentAlert

// PaymentAlertPayload 支付报警任务载荷
type PaymentAlertPayload struct {
	MerchantTradeNo string `json:"merchant_trade_no"`
	Reason          string `json:"reason"`
	ClientIP        string `json:"client_ip,omitempty"`
}

// NewPaymentAlertTask 创建支付报警任务
func NewPaymentAlertTask(payload PaymentAlertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentAlert, body), nil
}
