package constants

// 订单状态常量
const (
	OrderStatusUnpaid = "unpaid"
	OrderStatusPaid   = "paid"
)

// 用户角色常量
const (
	AuthorityCustomer = "customer"
	AuthorityAdmin    = "admin"
)

// 超商取货通路常量（绿界 CvsType）
const (
	CvsTypeUnimart = "UNIMART"
	CvsTypeFami    = "FAMI"
)

// 绿界介接常量
const (
	// ECPayCallbackAck 付款结果通知的固定应答内容，偏离该字面值绿界会持续重送
	ECPayCallbackAck = "1|OK"
	// ECPayRtnCodeSuccess 付款成功的 RtnCode
	ECPayRtnCodeSuccess = "1"
	// ECPayTradeNoLength 厂商交易编号长度上限
	ECPayTradeNoLength = 20
	// ECPayTradeDateLayout MerchantTradeDate 的时间格式
	ECPayTradeDateLayout = "2006/01/02 15:04:05"
)

// 队列与任务常量
const (
	QueueDefault     = "default"
	TaskPaymentAlert = "payment:alert"
)

// gin context 键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyAuthority = "authority"
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID 请求 ID 透传头
const HeaderRequestID = "X-Request-ID"
