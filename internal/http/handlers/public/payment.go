package public

import (
	"net/http"

	"github.com/mall-next/internal/constants"
	handlershared "github.com/mall-next/internal/http/handlers/shared"
	"github.com/mall-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 发起收银台结帐请求
type CheckoutRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreateCheckout 为未付款订单生成绿界收银台自动提交表单
func (h *Handler) CreateCheckout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	result, err := h.PaymentService.InitiateCheckout(userID, req.OrderID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, result)
}

// PaymentCallback 绿界服务器端付款结果通知。
// 无论处理结果如何都必须应答固定字面值，否则绿界会按重送机制反复通知
func (h *Handler) PaymentCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		handlershared.RequestLog(c).Warnw("payment_callback_parse_form_failed", "error", err)
		c.String(http.StatusOK, constants.ECPayCallbackAck)
		return
	}

	if err := h.PaymentService.HandleCallback(c.Request.PostForm); err != nil {
		handlershared.RequestLog(c).Errorw("payment_callback_handle_failed", "error", err)
	}
	c.String(http.StatusOK, constants.ECPayCallbackAck)
}

// PaymentClientReturn 消费者浏览器端付款完成返回。
// 仅回显结果供前端展示，订单状态以服务器端通知为准
func (h *Handler) PaymentClientReturn(c *gin.Context) {
	_ = c.Request.ParseForm()
	// GET 走 query，POST 走表单，ParseForm 后统一从 Form 读取
	response.Success(c, gin.H{
		"rtn_code":          c.Request.Form.Get("RtnCode"),
		"rtn_msg":           c.Request.Form.Get("RtnMsg"),
		"merchant_trade_no": c.Request.Form.Get("MerchantTradeNo"),
	})
}
